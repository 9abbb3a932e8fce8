// Package rebuild writes edited sounds back into an archive pair. Each
// sound's replacement is found next to the .uber file, encoded with the
// sound's original coefficients and patched over the original bytes
// without changing either file's size.
package rebuild

import (
	"fmt"
)

type Target struct {
	Uber string
	Samp string
}

type Source int

const (
	SourceNone Source = iota
	SourceWAV
	SourceDSP
)

func (source Source) String() string {
	switch source {
	case SourceWAV:
		return "wav"
	case SourceDSP:
		return "dsp"
	default:
		return "none"
	}
}

type Options struct {
	// Workers bounds how many sounds encode at once.
	Workers int
	// KeepGenerated leaves the .dsp files written for .wav sources in place.
	KeepGenerated bool
}

func DefaultOptions() Options {
	return Options{
		Workers:       4,
		KeepGenerated: false,
	}
}

type Item struct {
	Index  int
	Source Source

	WAVPath string
	DSPPath string

	// Container is the new standalone file the patches are taken from.
	Container []byte

	// Offsets are -1 when the original bytes were not found.
	UberOffset int64
	SampOffset int64

	Padded  int
	Trimmed int

	Notes []string
}

func (item *Item) Skipped() bool {
	return item.Source == SourceNone
}

func (item *Item) note(format string, args ...interface{}) {
	item.Notes = append(item.Notes, fmt.Sprintf(format, args...))
}

type Report struct {
	Items []*Item
	// Processed counts the sounds that had a replacement.
	Processed int
	// Cleaned lists the generated .dsp files that were removed.
	Cleaned []string
}
