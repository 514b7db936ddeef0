package audio

import "math"

// Resample converts samples from sourceRate to targetRate using linear
// interpolation. Equal rates return a copy of the input.
//
// There is no filtering beyond the interpolation itself, so aliasing on
// down-sampling is an accepted approximation.
func Resample(samples []float32, sourceRate, targetRate int) []float32 {
	if sourceRate == targetRate {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out
	}
	if len(samples) == 0 {
		return []float32{}
	}

	ratio := float64(targetRate) / float64(sourceRate)
	out := make([]float32, int(math.Ceil(float64(len(samples))*ratio)))
	for i := range out {
		position := float64(i) / ratio
		index := int(math.Floor(position))
		next := index + 1
		if next >= len(samples) {
			// Past the final sample, hold its value.
			next = len(samples) - 1
		}
		if index >= len(samples) {
			index = len(samples) - 1
		}
		fraction := float32(position - float64(index))
		out[i] = samples[index]*(1-fraction) + samples[next]*fraction
	}
	return out
}
