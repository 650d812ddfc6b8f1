package wavfile

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// Info describes a WAV file on disk.
type Info struct {
	Path       string
	SampleRate int
	Channels   int
	BitDepth   int
	// SampleCount is the number of samples across all channels.
	SampleCount int
	// DataBytes is the length of the data chunk.
	DataBytes int64
}

// Duration is the playing time implied by the sample count.
func (i Info) Duration() time.Duration {
	if i.SampleRate <= 0 || i.Channels <= 0 {
		return 0
	}
	frames := i.SampleCount / i.Channels
	return time.Duration(frames) * time.Second / time.Duration(i.SampleRate)
}

// Recording is a decoded WAV file.
type Recording struct {
	Info
	Samples []int16
}

// Read decodes a PCM WAV file.
func Read(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}

	rec := &Recording{
		Info: Info{
			Path:        path,
			SampleRate:  int(dec.SampleRate),
			Channels:    int(dec.NumChans),
			BitDepth:    int(dec.BitDepth),
			SampleCount: len(buf.Data),
			DataBytes:   dec.PCMLen(),
		},
		Samples: Clip(buf.Data),
	}
	return rec, nil
}

// Stat reads the header and sample count of a WAV file.
func Stat(path string) (Info, error) {
	rec, err := Read(path)
	if err != nil {
		return Info{}, err
	}
	return rec.Info, nil
}
