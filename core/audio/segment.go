package audio

import (
	"math"
	"time"
)

// Segment is an immutable buffer of decoded mono samples at a known rate, the
// unit of playback scheduling. Whichever queue holds a segment owns it;
// ownership transfers on dequeue.
type Segment struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// NewSegment wraps samples into a mono segment.
func NewSegment(samples []float32, sampleRate int) Segment {
	return Segment{Samples: samples, SampleRate: sampleRate, Channels: 1}
}

// DecodeSegment decodes a base64 PCM16 wire payload into a segment at the
// given rate.
func DecodeSegment(encoded string, sampleRate int) (Segment, error) {
	data, err := FromBase64(encoded)
	if err != nil {
		return Segment{}, err
	}
	samples, err := DecodePCM16(data)
	if err != nil {
		return Segment{}, err
	}
	return NewSegment(samples, sampleRate), nil
}

// Duration reports how long the segment plays for.
func (s Segment) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.Samples)) / float64(s.SampleRate) * float64(time.Second))
}

// SineTone synthesizes a test tone segment.
func SineTone(freqHz, sampleRate int, d time.Duration, amplitude float64) Segment {
	if freqHz <= 0 || sampleRate <= 0 || d <= 0 {
		return NewSegment(nil, sampleRate)
	}
	if amplitude <= 0 || amplitude > 1 {
		amplitude = 0.2
	}

	samples := make([]float32, int(float64(sampleRate)*d.Seconds()))
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = float32(amplitude * math.Sin(2*math.Pi*float64(freqHz)*t))
	}
	return NewSegment(samples, sampleRate)
}
