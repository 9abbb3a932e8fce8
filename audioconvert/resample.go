package audioconvert

// ConvertSampleLength is the number of samples input of length samples
// occupies at the new rate, rounded down.
func ConvertSampleLength(length int, to int, from int) int {
	return int(float64(length) * (float64(to) / float64(from)))
}

func lerpSample(a int16, b int16, lerp float64) int16 {
	return int16(float64(a)*(1-lerp) + float64(b)*lerp)
}

func GetSample(input []int16, at float64) int16 {
	var asInt = int(at)

	if asInt < 0 {
		return input[0]
	} else if asInt+1 >= len(input) {
		return input[len(input)-1]
	} else {
		var currentSample = input[asInt]
		var nextSample = input[asInt+1]

		var lerpValue = at - float64(asInt)

		return lerpSample(currentSample, nextSample, lerpValue)
	}
}

// Resample converts input from one sample rate to another by linear
// interpolation. Matching rates return input unchanged.
func Resample(input []int16, from int, to int) []int16 {
	if from == to || from <= 0 || to <= 0 || len(input) == 0 {
		return input
	}

	var result []int16 = make([]int16, ConvertSampleLength(len(input), to, from))

	var ratio = float64(to) / float64(from)

	for index := range result {
		result[index] = GetSample(input, float64(index)/ratio)
	}

	return result
}
