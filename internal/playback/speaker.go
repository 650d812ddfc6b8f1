package playback

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog"
)

// speakerRate is the rate the output device is opened at; files at other
// rates are resampled.
const speakerRate = beep.SampleRate(44100)

type speakerPlayer struct {
	log zerolog.Logger

	mu     sync.Mutex
	inited bool

	// curMu guards current and is never held across speaker calls, since the
	// end-of-stream callback runs under the speaker lock.
	curMu   sync.Mutex
	current io.Closer
}

// NewSpeaker plays through the default output device using beep. The device is
// opened on first use.
func NewSpeaker(log zerolog.Logger) Player {
	return &speakerPlayer{log: log}
}

func (p *speakerPlayer) init() error {
	if p.inited {
		return nil
	}
	if err := speaker.Init(speakerRate, speakerRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("%w: failed to open output device: %v", ErrPlayback, err)
	}
	p.inited = true
	return nil
}

func (p *speakerPlayer) Play(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlayback, err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: failed to decode %s: %v", ErrPlayback, path, err)
	}

	if err := p.init(); err != nil {
		streamer.Close()
		return err
	}

	var s beep.Streamer = streamer
	if format.SampleRate != speakerRate {
		s = beep.Resample(4, format.SampleRate, speakerRate, streamer)
	}

	// A new Listen replaces whatever is still playing.
	speaker.Clear()
	if prev := p.swapCurrent(streamer); prev != nil {
		prev.Close()
	}
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		p.release(streamer)
		p.log.Debug().Str("path", path).Msg("Playback finished")
	})))

	p.log.Info().Str("path", path).Msg("Playback started")
	return nil
}

func (p *speakerPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inited {
		speaker.Clear()
		speaker.Close()
		p.inited = false
	}
	if prev := p.swapCurrent(nil); prev != nil {
		return prev.Close()
	}
	return nil
}

// swapCurrent records c as the playing stream and returns the one it replaced.
func (p *speakerPlayer) swapCurrent(c io.Closer) io.Closer {
	p.curMu.Lock()
	defer p.curMu.Unlock()
	prev := p.current
	p.current = c
	return prev
}

// release closes c if it is still the playing stream. A stream that was
// already replaced has been closed by whoever replaced it.
func (p *speakerPlayer) release(c io.Closer) {
	p.curMu.Lock()
	if p.current != c {
		p.curMu.Unlock()
		return
	}
	p.current = nil
	p.curMu.Unlock()
	c.Close()
}
