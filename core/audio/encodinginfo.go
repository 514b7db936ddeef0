package audio

import "time"

const (
	// DeviceSampleRate is the rate capture and playback devices are opened at.
	DeviceSampleRate = 48000
	// WireSampleRate is the rate the remote service expects and emits PCM16 at.
	WireSampleRate = 24000

	DefaultFormat = "linear16"
)

func GetDeviceEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DeviceSampleRate, Format: EncodingLinear16}
}

func GetWireEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: WireSampleRate, Format: EncodingLinear16}
}

type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case EncodingALaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	case EncodingLinear16:
		return 0
	}

	return 0
}

// BytesDuration reports how long the given raw payload plays for at this
// encoding, assuming mono audio.
func (e EncodingInfo) BytesDuration(n int) time.Duration {
	if e.IsZero() || e.Format.ByteSize() <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(e.SampleRate) / float64(e.Format.ByteSize()) * float64(time.Second))
}

// DurationBytes reports how many raw bytes cover the given duration at this
// encoding, assuming mono audio.
func (e EncodingInfo) DurationBytes(d time.Duration) int {
	if e.IsZero() || e.Format.ByteSize() <= 0 {
		return 0
	}
	return int(float64(d) / float64(time.Second) * float64(e.SampleRate) * float64(e.Format.ByteSize()))
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)
