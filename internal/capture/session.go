package capture

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petems/wizard-sound/internal/audio"
	"github.com/rs/zerolog"
)

// State is the lifecycle position of a Session.
type State int

const (
	Idle State = iota
	Recording
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Recording:
		return "Recording"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

var (
	// ErrInvalidState is returned when Start or Stop is called out of order.
	ErrInvalidState = errors.New("invalid capture state")
	// ErrEmptyCapture means Stop was reached before any buffer arrived.
	ErrEmptyCapture = errors.New("no audio captured")
)

// DefaultQueueSize bounds the number of buffers waiting between the audio
// callback and the collector.
const DefaultQueueSize = 256

// Result is the outcome of a stopped session.
type Result struct {
	Samples    []int16
	SampleRate int
	Chunks     int
	Elapsed    time.Duration
	// Dropped counts buffers lost because the queue was full.
	Dropped int
	// TeardownErr holds any error from stopping or closing the stream.
	// The captured audio is still valid when it is set.
	TeardownErr error
}

// Duration is the audio length implied by the sample count.
func (r Result) Duration() time.Duration {
	if r.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(r.Samples)) * time.Second / time.Duration(r.SampleRate)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithClock replaces time.Now for elapsed-time reporting.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithQueueSize sets the callback queue capacity.
func WithQueueSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// Session records one clip: Idle -> Recording -> Stopped.
type Session struct {
	opener    audio.StreamOpener
	log       zerolog.Logger
	now       func() time.Time
	queueSize int

	mu         sync.Mutex
	state      State
	device     audio.InputDevice
	sampleRate int
	stream     audio.Stream
	started    time.Time
	stopped    time.Time

	queue   chan []int16
	done    chan struct{}
	drained sync.WaitGroup
	chunks  [][]int16
	dropped atomic.Int64
}

// New creates an idle session that opens streams through opener.
func New(opener audio.StreamOpener, opts ...Option) *Session {
	s := &Session{
		opener:    opener,
		log:       zerolog.Nop(),
		now:       time.Now,
		queueSize: DefaultQueueSize,
		state:     Idle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens and starts an input stream on dev. A sampleRate of zero uses the
// device's default rate. On failure the session stays Idle.
func (s *Session) Start(dev audio.InputDevice, sampleRate int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return fmt.Errorf("%w: cannot start from %s", ErrInvalidState, s.state)
	}

	rate := audio.SampleRateFor(dev, sampleRate)
	queue := make(chan []int16, s.queueSize)

	stream, err := s.opener.OpenInput(dev, rate, func(in []int16) {
		buf := make([]int16, len(in))
		copy(buf, in)
		select {
		case queue <- buf:
		default:
			s.dropped.Add(1)
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", audio.ErrDeviceUnavailable, dev.Label(), err)
	}

	s.queue = queue
	s.done = make(chan struct{})
	s.chunks = nil
	s.dropped.Store(0)
	s.drained.Add(1)
	go s.collect(queue, s.done)

	if err := stream.Start(); err != nil {
		close(s.done)
		s.drained.Wait()
		if cerr := stream.Close(); cerr != nil {
			s.log.Warn().Err(cerr).Msg("Failed to close stream after start error")
		}
		s.chunks = nil
		return fmt.Errorf("%w: failed to start stream on %s: %v", audio.ErrDeviceUnavailable, dev.Label(), err)
	}

	s.stream = stream
	s.device = dev
	s.sampleRate = rate
	s.started = s.now()
	s.state = Recording

	s.log.Info().Str("device", dev.Name).Int("sample_rate", rate).Msg("Recording started")
	return nil
}

// collect is the only writer of s.chunks while recording.
func (s *Session) collect(queue <-chan []int16, done <-chan struct{}) {
	defer s.drained.Done()
	for {
		select {
		case buf := <-queue:
			s.chunks = append(s.chunks, buf)
		case <-done:
			for {
				select {
				case buf := <-queue:
					s.chunks = append(s.chunks, buf)
				default:
					return
				}
			}
		}
	}
}

// Stop halts the stream and concatenates everything captured, in arrival
// order. With no buffers it returns ErrEmptyCapture alongside the Result.
func (s *Session) Stop() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Recording {
		return Result{}, fmt.Errorf("%w: cannot stop from %s", ErrInvalidState, s.state)
	}

	var teardown []error
	if err := s.stream.Stop(); err != nil {
		teardown = append(teardown, fmt.Errorf("failed to stop stream: %w", err))
	}
	if err := s.stream.Close(); err != nil {
		teardown = append(teardown, fmt.Errorf("failed to close stream: %w", err))
	}
	s.stream = nil
	s.stopped = s.now()
	s.state = Stopped

	close(s.done)
	s.drained.Wait()

	res := Result{
		SampleRate:  s.sampleRate,
		Chunks:      len(s.chunks),
		Elapsed:     s.stopped.Sub(s.started),
		Dropped:     int(s.dropped.Load()),
		TeardownErr: errors.Join(teardown...),
	}
	if res.Elapsed < 0 {
		res.Elapsed = 0
	}
	if res.TeardownErr != nil {
		s.log.Warn().Err(res.TeardownErr).Msg("Stream teardown reported errors")
	}
	if res.Dropped > 0 {
		s.log.Warn().Int("dropped", res.Dropped).Msg("Capture queue overflowed")
	}

	if len(s.chunks) == 0 {
		s.log.Info().Dur("elapsed", res.Elapsed).Msg("Recording stopped with no audio")
		return res, ErrEmptyCapture
	}

	total := 0
	for _, c := range s.chunks {
		total += len(c)
	}
	res.Samples = make([]int16, 0, total)
	for _, c := range s.chunks {
		res.Samples = append(res.Samples, c...)
	}
	s.chunks = nil

	s.log.Info().
		Int("samples", len(res.Samples)).
		Int("chunks", res.Chunks).
		Dur("elapsed", res.Elapsed).
		Msg("Recording stopped")
	return res, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed is the wall-clock time since Start, frozen at Stop.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Recording:
		return s.now().Sub(s.started)
	case Stopped:
		return s.stopped.Sub(s.started)
	default:
		return 0
	}
}

// Device is the device the session recorded from.
func (s *Session) Device() audio.InputDevice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device
}

// SampleRate is the rate the stream was opened at.
func (s *Session) SampleRate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleRate
}
