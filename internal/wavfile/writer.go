// Package wavfile writes recordings as mono 16-bit PCM WAV files.
package wavfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rs/zerolog"
)

const (
	Channels = 1
	BitDepth = 16
	// formatPCM is the WAVE_FORMAT_PCM tag.
	formatPCM = 1

	filePerm = 0644
)

// ErrNoSamples is returned when asked to write an empty recording.
var ErrNoSamples = errors.New("no samples to write")

// Writer saves recordings into a single output directory.
type Writer struct {
	Dir string
	log zerolog.Logger
}

// NewWriter returns a Writer for dir.
func NewWriter(dir string, log zerolog.Logger) *Writer {
	return &Writer{Dir: dir, log: log}
}

// Resolve returns the absolute path a recording named requested would be
// written to. With overwrite false an existing file is never reused; name_2.wav,
// name_3.wav and so on are tried until a free one is found.
func (w *Writer) Resolve(requested string, overwrite bool) (string, error) {
	dir, err := filepath.Abs(w.Dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(requested))
	if overwrite {
		return path, nil
	}

	exists, err := fileExists(path)
	if err != nil {
		return "", err
	}
	if !exists {
		return path, nil
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		candidate := base + "_" + strconv.Itoa(n) + ext
		exists, err := fileExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

// Save writes samples as a mono 16-bit WAV and returns the path actually used,
// which carries a numeric suffix when overwrite is false and the name is taken.
func (w *Writer) Save(samples []int16, sampleRate int, requested string, overwrite bool) (string, error) {
	if len(samples) == 0 {
		return "", ErrNoSamples
	}
	if sampleRate <= 0 {
		return "", fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path, err := w.Resolve(requested, overwrite)
	if err != nil {
		return "", err
	}

	// Write next to the destination first so a failed write never leaves a
	// truncated file under the final name.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".wizard-*.wav.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Encode(tmp, samples, sampleRate); err != nil {
		tmp.Close()
		return "", err
	}
	// CreateTemp opens with 0600; saved sounds are meant to be shared.
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to move WAV into place: %w", err)
	}

	w.log.Info().
		Str("path", path).
		Int("samples", len(samples)).
		Int("sample_rate", sampleRate).
		Msg("WAV saved")

	return path, nil
}

// Encode writes a complete RIFF/WAVE stream with a single fmt and data chunk.
func Encode(ws io.WriteSeeker, samples []int16, sampleRate int) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}

	enc := wav.NewEncoder(ws, sampleRate, BitDepth, Channels, formatPCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: Channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: BitDepth,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV header: %w", err)
	}
	return nil
}

// Sample is any numeric storage a recording might arrive in.
type Sample interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Clip converts samples to int16, clamping to [-32768, 32767]. Values are not
// rescaled; floats are truncated toward zero and NaN becomes silence.
func Clip[T Sample](in []T) []int16 {
	out := make([]int16, len(in))
	for i, v := range in {
		f := float64(v)
		switch {
		case math.IsNaN(f):
			out[i] = 0
		case f >= math.MaxInt16:
			out[i] = math.MaxInt16
		case f <= math.MinInt16:
			out[i] = math.MinInt16
		default:
			out[i] = int16(f)
		}
	}
	return out
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}
}
