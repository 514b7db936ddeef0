package audio

import (
	"testing"
	"time"
)

func TestResampleEqualRatesReturnsCopy(t *testing.T) {
	samples := []float32{0.1, 0.2, 0.3}

	out := Resample(samples, 24000, 24000)
	if len(out) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(out))
	}

	out[0] = 0.9
	if samples[0] != 0.1 {
		t.Fatalf("expected input to be untouched, got %f", samples[0])
	}
}

func TestResampleUpsamplingDoublesLengthAndKeepsSourceSamples(t *testing.T) {
	samples := []float32{0, 0.5, 1, 0.5}

	out := Resample(samples, 24000, 48000)
	if len(out) != 8 {
		t.Fatalf("expected 8 samples after doubling, got %d", len(out))
	}

	// Even indices land exactly on source samples.
	for i, sample := range samples {
		if out[2*i] != sample {
			t.Fatalf("expected sample %d to be %f, got %f", 2*i, sample, out[2*i])
		}
	}

	// Odd indices interpolate midway between neighbours.
	if out[1] != 0.25 {
		t.Fatalf("expected interpolated sample 0.25, got %f", out[1])
	}
	if out[3] != 0.75 {
		t.Fatalf("expected interpolated sample 0.75, got %f", out[3])
	}
}

func TestResampleDownsamplingHalvesLength(t *testing.T) {
	samples := make([]float32, 480)

	out := Resample(samples, 48000, 24000)
	if len(out) != 240 {
		t.Fatalf("expected 240 samples after halving, got %d", len(out))
	}
}

func TestResampleEmptyInput(t *testing.T) {
	if out := Resample(nil, 24000, 48000); len(out) != 0 {
		t.Fatalf("expected no output samples, got %d", len(out))
	}
}

func TestSegmentDurationFollowsSampleRate(t *testing.T) {
	segment := NewSegment(make([]float32, 24000), 24000)
	if got := segment.Duration(); got != time.Second {
		t.Fatalf("expected one second of audio, got %v", got)
	}

	segment = NewSegment(make([]float32, 12000), 24000)
	if got := segment.Duration(); got != 500*time.Millisecond {
		t.Fatalf("expected half a second of audio, got %v", got)
	}
}

func TestDecodeSegmentRejectsMalformedPayload(t *testing.T) {
	if _, err := DecodeSegment("@@@", WireSampleRate); err == nil {
		t.Fatal("expected malformed payload to be rejected")
	}
}

func TestDecodeSegmentDecodesWirePayload(t *testing.T) {
	encoded := ToBase64(EncodePCM16([]float32{0, 0.5, -0.5}))

	segment, err := DecodeSegment(encoded, WireSampleRate)
	if err != nil {
		t.Fatalf("expected decode to succeed, got %v", err)
	}
	if segment.SampleRate != WireSampleRate {
		t.Fatalf("expected wire sample rate %d, got %d", WireSampleRate, segment.SampleRate)
	}
	if len(segment.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(segment.Samples))
	}
	if segment.Channels != 1 {
		t.Fatalf("expected mono segment, got %d channels", segment.Channels)
	}
}
