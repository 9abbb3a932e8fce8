package adpcm

import "math"

// Once a scale reconstructs every sample in a frame to within this many
// steps the scale search stops, even if a later scale would do better.
const GOOD_ENOUGH_ERROR = 256

func iabs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func clip(ix int64, llevel int64, ulevel int64) int64 {
	if ix < llevel {
		return llevel
	} else if ix > ulevel {
		return ulevel
	}
	return ix
}

func predict(pair CoefficientPair, hist1 int64, hist2 int64) int64 {
	return (int64(pair.Coef1)*hist1 + int64(pair.Coef2)*hist2) >> 11
}

func quantize(sample int16, predicted int64, scale int) int64 {
	return clip((int64(sample)-predicted)>>scale, -MAX_LEVEL-1, MAX_LEVEL)
}

// Sum of absolute prediction errors using the input itself as history.
func predictorError(input []int16, pair CoefficientPair, hist1 int64, hist2 int64) int64 {
	var total int64 = 0

	for _, sample := range input {
		total += iabs(int64(sample) - predict(pair, hist1, hist2))
		hist2 = hist1
		hist1 = int64(sample)
	}

	return total
}

// Largest reconstruction error over the frame when quantized at scale,
// following the history a decoder would see.
func scaleError(input []int16, pair CoefficientPair, scale int, hist1 int64, hist2 int64) int64 {
	var maxError int64 = 0

	for _, sample := range input {
		var nibble = quantize(sample, predict(pair, hist1, hist2), scale)
		var reconstructed = reconstruct(nibble, scale, pair, hist1, hist2)

		var err = iabs(int64(sample) - int64(reconstructed))
		if err > maxError {
			maxError = err
		}

		hist2 = hist1
		hist1 = int64(reconstructed)
	}

	return maxError
}

func choosePredictor(input []int16, coefs *Coefficients, hist1 int64, hist2 int64) int {
	var optimalp = 0
	var min int64 = math.MaxInt64

	for k := 0; k < PREDICTOR_COUNT; k = k + 1 {
		var err = predictorError(input, coefs[k], hist1, hist2)

		if err < min {
			min = err
			optimalp = k
		}
	}

	return optimalp
}

func chooseScale(input []int16, pair CoefficientPair, hist1 int64, hist2 int64) int {
	var scale = 0
	var min int64 = math.MaxInt64

	for testScale := 0; testScale <= MAX_SCALE; testScale = testScale + 1 {
		var maxError = scaleError(input, pair, testScale, hist1, hist2)

		if maxError < min {
			min = maxError
			scale = testScale
		}

		if maxError < GOOD_ENOUGH_ERROR {
			break
		}
	}

	return scale
}

type encoderState struct {
	hist1 int64
	hist2 int64
}

// encodeFrame writes one frame for up to 14 samples into out, which must
// hold FRAME_BYTES bytes. Reconstructed samples are appended to recon when
// it is not nil.
func (state *encoderState) encodeFrame(input []int16, coefs *Coefficients, out []byte, recon *[]int16) {
	var optimalp = choosePredictor(input, coefs, state.hist1, state.hist2)
	var pair = coefs[optimalp]
	var scale = chooseScale(input, pair, state.hist1, state.hist2)

	var ix [FRAME_SAMPLES]uint8

	var hist1 = state.hist1
	var hist2 = state.hist2

	for i, sample := range input {
		var nibble = quantize(sample, predict(pair, hist1, hist2), scale)
		ix[i] = uint8(nibble) & 0xf

		var reconstructed = reconstruct(nibble, scale, pair, hist1, hist2)

		if recon != nil {
			*recon = append(*recon, reconstructed)
		}

		hist2 = hist1
		hist1 = int64(reconstructed)
	}

	out[0] = uint8(NewFrameHeader(optimalp, scale))

	for i := 0; i < FRAME_SAMPLES; i = i + 2 {
		out[1+i/2] = ix[i]<<4 | ix[i+1]
	}

	state.hist1 = hist1
	state.hist2 = hist2
}

func encode(samples []int16, coefs Coefficients, recon *[]int16) []byte {
	var result = make([]byte, EncodedSize(len(samples)))
	var state encoderState

	for frame := 0; frame*FRAME_SAMPLES < len(samples); frame = frame + 1 {
		var start = frame * FRAME_SAMPLES
		var end = start + FRAME_SAMPLES

		if end > len(samples) {
			end = len(samples)
		}

		state.encodeFrame(samples[start:end], &coefs, result[frame*FRAME_BYTES:(frame+1)*FRAME_BYTES], recon)
	}

	return result
}

// Encode compresses samples into frames of 14, choosing the predictor and
// scale per frame. A short final frame is padded with zero nibbles.
func Encode(samples []int16, coefs Coefficients) []byte {
	return encode(samples, coefs, nil)
}
