package sounds

import (
	"os"

	"github.com/lambertjamesd/uberdsp/aiff"
	"github.com/lambertjamesd/uberdsp/wav"
)

func (sound *Sound) ExportWAV(filename string) error {
	return wav.WriteFile(filename, wav.NewMono(sound.PCM, sound.SampleRate()))
}

func (sound *Sound) ExportDSP(filename string) error {
	return os.WriteFile(filename, sound.DSP, 0o644)
}

func (sound *Sound) ExportAIFF(filename string) error {
	return aiff.WriteFile(filename, aiff.NewMono(sound.PCM, sound.SampleRate()))
}
