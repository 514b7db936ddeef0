package audio

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrMalformedAudio marks payloads that cannot be interpreted as wire audio.
var ErrMalformedAudio = errors.New("malformed audio payload")

// DecodePCM16 interprets data as signed 16-bit little-endian mono samples and
// scales them into [-1, 1].
func DecodePCM16(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: odd byte length %d", ErrMalformedAudio, len(data))
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		sample := int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8)
		samples[i] = float32(sample) / 32768
	}
	return samples, nil
}

// EncodePCM16 clamps samples to [-1, 1] and packs them as signed 16-bit
// little-endian values. The round trip through DecodePCM16 is amplitude-stable
// within one quantization step but not bit-exact.
func EncodePCM16(samples []float32) []byte {
	data := make([]byte, len(samples)*2)
	for i, sample := range samples {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		value := int16(sample * 32767)
		data[2*i] = byte(value)
		data[2*i+1] = byte(value >> 8)
	}
	return data
}

// ToBase64 encodes raw audio bytes for transport inside text messages.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// FromBase64 decodes transport audio back into raw bytes.
func FromBase64(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAudio, err)
	}
	return data, nil
}
