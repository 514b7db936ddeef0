package audio

import (
	"errors"
	"math"
	"testing"
)

func TestDecodePCM16ScalesSamplesIntoUnitRange(t *testing.T) {
	// 0, 16384 (0.5), -32768 (-1.0) as little-endian int16.
	data := []byte{0x00, 0x00, 0x00, 0x40, 0x00, 0x80}

	samples, err := DecodePCM16(data)
	if err != nil {
		t.Fatalf("expected decode to succeed, got %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if samples[0] != 0 {
		t.Fatalf("expected first sample 0, got %f", samples[0])
	}
	if samples[1] != 0.5 {
		t.Fatalf("expected second sample 0.5, got %f", samples[1])
	}
	if samples[2] != -1 {
		t.Fatalf("expected third sample -1, got %f", samples[2])
	}
}

func TestDecodePCM16RejectsOddByteLength(t *testing.T) {
	if _, err := DecodePCM16([]byte{0x00, 0x00, 0x01}); !errors.Is(err, ErrMalformedAudio) {
		t.Fatalf("expected ErrMalformedAudio for odd byte length, got %v", err)
	}
}

func TestEncodePCM16RoundTripStaysWithinQuantizationStep(t *testing.T) {
	samples := []float32{0, 0.25, -0.25, 0.9, -0.9, 1, -1}

	decoded, err := DecodePCM16(EncodePCM16(samples))
	if err != nil {
		t.Fatalf("expected round trip decode to succeed, got %v", err)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("expected %d samples after round trip, got %d", len(samples), len(decoded))
	}

	for i := range samples {
		if diff := math.Abs(float64(decoded[i] - samples[i])); diff > 1.0/32767 {
			t.Fatalf("expected sample %d within one quantization step, diff %f", i, diff)
		}
	}
}

func TestEncodePCM16ClampsOutOfRangeSamples(t *testing.T) {
	data := EncodePCM16([]float32{2.0, -2.0})

	decoded, err := DecodePCM16(data)
	if err != nil {
		t.Fatalf("expected decode to succeed, got %v", err)
	}
	if decoded[0] <= 0.99 || decoded[0] > 1 {
		t.Fatalf("expected positive overflow to clamp near 1, got %f", decoded[0])
	}
	if decoded[1] >= -0.99 || decoded[1] < -1 {
		t.Fatalf("expected negative overflow to clamp near -1, got %f", decoded[1])
	}
}

func TestFromBase64RejectsMalformedPayload(t *testing.T) {
	if _, err := FromBase64("not-base64!!"); !errors.Is(err, ErrMalformedAudio) {
		t.Fatalf("expected ErrMalformedAudio for malformed payload, got %v", err)
	}
}

func TestBase64RoundTripPreservesBytes(t *testing.T) {
	data := []byte{0x01, 0x02, 0xFF, 0x00}

	decoded, err := FromBase64(ToBase64(data))
	if err != nil {
		t.Fatalf("expected round trip to succeed, got %v", err)
	}
	if len(decoded) != len(data) {
		t.Fatalf("expected %d bytes, got %d", len(data), len(decoded))
	}
	for i := range data {
		if decoded[i] != data[i] {
			t.Fatalf("expected byte %d to be %x, got %x", i, data[i], decoded[i])
		}
	}
}
