package adpcm

const MAX_LEVEL = 7

func clampSample(value int64) int16 {
	if value > 32767 {
		return 32767
	} else if value < -32768 {
		return -32768
	}
	return int16(value)
}

// Reconstruct a sample from a signed nibble. The bias of 1024 rounds the
// final divide by 2^11.
func reconstruct(nibble int64, scale int, pair CoefficientPair, hist1 int64, hist2 int64) int16 {
	var sample = (nibble << scale) << 11
	sample = (sample + int64(pair.Coef1)*hist1 + int64(pair.Coef2)*hist2 + 1024) >> 11
	return clampSample(sample)
}

func signExtend(nibble uint8) int64 {
	if nibble > MAX_LEVEL {
		return int64(nibble) - 16
	}
	return int64(nibble)
}

// Decode expands a stream of frames into at most sampleCount samples.
// Decoding stops early, without an error, if data runs out. Frame headers
// naming a predictor past the table fall back to predictor 0.
func Decode(data []byte, coefs Coefficients, initial FrameHeader, sampleCount int) []int16 {
	if sampleCount < 0 {
		sampleCount = 0
	}

	var result = make([]int16, 0, sampleCount)

	var hist1 int64 = 0
	var hist2 int64 = 0

	var header = initial
	var pair CoefficientPair
	var scale int

	var bytePos = 0

	for len(result) < sampleCount && bytePos < len(data) {
		if len(result)%FRAME_SAMPLES == 0 {
			header = FrameHeader(data[bytePos])
			bytePos++

			var predictor = header.Predictor()
			scale = header.Scale()

			if predictor >= PREDICTOR_COUNT {
				predictor = 0
			}

			pair = coefs[predictor]
		}

		if bytePos >= len(data) {
			break
		}

		var packed = data[bytePos]
		bytePos++

		for _, nibble := range [2]uint8{packed >> 4, packed & 0xf} {
			if len(result) >= sampleCount {
				break
			}

			var sample = reconstruct(signExtend(nibble), scale, pair, hist1, hist2)
			result = append(result, sample)

			hist2 = hist1
			hist1 = int64(sample)
		}
	}

	return result
}
