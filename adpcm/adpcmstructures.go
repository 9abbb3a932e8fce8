package adpcm

const PREDICTOR_COUNT = 8

// Samples per frame, and bytes per encoded frame (one header byte plus
// seven bytes of packed nibbles).
const FRAME_SAMPLES = 14
const FRAME_BYTES = 8

const COEFFICIENT_BYTES = PREDICTOR_COUNT * 4

const MAX_SCALE = 12

type CoefficientPair struct {
	Coef1 int16
	Coef2 int16
}

type Coefficients [PREDICTOR_COUNT]CoefficientPair

// FrameHeader is the predictor/scale byte that starts every frame.
type FrameHeader uint8

func NewFrameHeader(predictor int, scale int) FrameHeader {
	return FrameHeader(uint8(predictor<<4) | uint8(scale&0xf))
}

func (header FrameHeader) Predictor() int {
	return int(header>>4) & 0xf
}

func (header FrameHeader) Scale() int {
	return int(header) & 0xf
}

// NibblesToSamples converts a nibble count into the number of samples it
// holds. Every 16 nibbles hold one frame of 14 samples; a partial frame
// spends two nibbles on its header. A single stray nibble yields -1.
func NibblesToSamples(nibbles uint32) int {
	var wholeFrames = int(nibbles / 16)
	var remainder = int(nibbles % 16)

	if remainder > 0 {
		return wholeFrames*FRAME_SAMPLES + remainder - 2
	}

	return wholeFrames * FRAME_SAMPLES
}

// EncodedSize is the number of bytes Encode produces for sampleCount samples.
func EncodedSize(sampleCount int) int {
	return (sampleCount + FRAME_SAMPLES - 1) / FRAME_SAMPLES * FRAME_BYTES
}
