// Package sounds decodes every sample described by an archive's sound
// directory into playable PCM and standalone DSP containers.
package sounds

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lambertjamesd/uberdsp/sdir"
)

type Sound struct {
	Index       int
	Record      sdir.Record
	SampleCount int

	// ADPCM is the payload exactly as it sits in the .samp file.
	ADPCM []byte
	// PCM may be shared with other loads of the same payload through the
	// loader's cache. Treat it as read-only.
	PCM []int16
	DSP []byte

	// Checksum is an xxhash of ADPCM.
	Checksum uint64
}

func (sound *Sound) SampleRate() uint32 {
	return uint32(sound.Record.SampleRate)
}

func (sound *Sound) Seconds() float64 {
	if sound.Record.SampleRate == 0 {
		return 0
	}

	return float64(sound.SampleCount) / float64(sound.Record.SampleRate)
}

func (sound *Sound) Duration() time.Duration {
	if sound.Record.SampleRate == 0 {
		return 0
	}

	return time.Duration(sound.SampleCount) * time.Second / time.Duration(sound.Record.SampleRate)
}

type Options struct {
	// Workers bounds how many sounds decode at once.
	Workers int
	// CacheSize is how many decoded sounds are remembered between loads.
	CacheSize int
}

func DefaultOptions() Options {
	return Options{
		Workers:   4,
		CacheSize: 256,
	}
}

// FileBase names the files generated for a sound: the archive path without
// its extension followed by a two digit index.
func FileBase(uberPath string, index int) string {
	return fmt.Sprintf("%s_%02d", strings.TrimSuffix(uberPath, filepath.Ext(uberPath)), index)
}
