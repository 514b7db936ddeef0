package miniaudio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/audio"
)

// playbackClient feeds scheduled segments to a malgo playback device. The
// device clock is the number of frames the data callback has consumed since
// the device started; it keeps running through silence, so segment start
// positions stay meaningful across gaps.
type playbackClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig
	encoding     audio.EncodingInfo

	mu sync.Mutex
	// consumed is the device clock in bytes, advanced by every callback.
	consumed int
	// pending holds raw bytes queued behind the clock, silence padding
	// included.
	pending []byte
	// marks fire when the clock passes the end of a scheduled segment.
	marks []playbackMark
}

type playbackMark struct {
	// position is an absolute device clock byte offset.
	position int
	done     func()
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.encoding = audio.GetDeviceEncodingInfo()
	sampleRate := uint32(c.encoding.SampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = sampleRate
	c.config.Playback.Format = format
	c.config.Playback.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	c.config.Periods = 4

	c.audioContext = audioContext

	var err error
	if c.device, err = malgo.InitDevice(
		c.audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: c.processAudio(bytesPerFrame)},
	); err != nil {
		return err
	}

	return nil
}

func (c *playbackClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	return nil
}

// Now reports the device clock position.
func (c *playbackClient) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.encoding.BytesDuration(c.consumed)
}

// PlayAt schedules a segment to start at the given device clock position,
// padding the queue with silence if the position is past its current end.
// done fires once the clock passes the end of the segment.
func (c *playbackClient) PlayAt(segment audio.Segment, at time.Duration, done func()) error {
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	if segment.SampleRate != c.encoding.SampleRate {
		return fmt.Errorf("segment rate %d does not match device rate %d",
			segment.SampleRate, c.encoding.SampleRate)
	}

	data := audio.EncodePCM16(segment.Samples)

	c.mu.Lock()
	defer c.mu.Unlock()

	queueEnd := c.consumed + len(c.pending)
	start := c.encoding.DurationBytes(at)
	if gap := start - queueEnd; gap > 0 {
		// Frame-align the silence padding so sample pairs stay intact.
		gap -= gap % c.encoding.Format.ByteSize()
		c.pending = append(c.pending, make([]byte, gap)...)
	}
	c.pending = append(c.pending, data...)

	if done != nil {
		c.marks = append(c.marks, playbackMark{
			position: c.consumed + len(c.pending),
			done:     done,
		})
	}
	return nil
}

// Halt drops everything queued without firing its completion marks. The
// device keeps running so the clock stays monotonic.
func (c *playbackClient) Halt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
	c.marks = nil
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return nil
	}

	c.device.Uninit()
	c.device = nil
	c.pending = nil
	c.marks = nil
	return nil
}

func (c *playbackClient) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		c.mu.Lock()
		n := copy(pOutput, c.pending)
		c.pending = c.pending[n:]
		c.consumed += need
		fired := c.passedMarks()
		c.mu.Unlock()

		for _, mark := range fired {
			go mark.done()
		}
	}
}

// passedMarks removes and returns marks the clock has passed. Caller holds
// the lock.
func (c *playbackClient) passedMarks() []playbackMark {
	passed := 0
	for _, mark := range c.marks {
		if mark.position > c.consumed {
			break
		}
		passed++
	}
	if passed == 0 {
		return nil
	}
	fired := c.marks[:passed]
	c.marks = c.marks[passed:]
	return fired
}
