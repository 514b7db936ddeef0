package miniaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/audio"
)

// Client bundles one capture and one playback device over a shared miniaudio
// context. It satisfies both device capabilities of the session, so a single
// client can be injected as input and output.
type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackClient
	captureClient

	closeOnce sync.Once
	closeErr  error
}

func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) {},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := Client{
		audioContext: audioCtx,
	}

	if err := client.playbackClient.Init(audioCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize playback client: %w", err)
	}

	// The playback device starts immediately so its clock is running before
	// the first segment is scheduled.
	if err := client.playbackClient.Start(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	if err := client.captureClient.Init(audioCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	return &client, nil
}

func (c *Client) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	return c.captureClient.Start(onAudio)
}

func (c *Client) StopCapture() error {
	return c.captureClient.Stop()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDeviceEncodingInfo()
}

// Close is idempotent; the session may release the input and output sides
// independently.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		_ = c.captureClient.Uninit()
		_ = c.playbackClient.Uninit()
		if err := c.audioContext.Uninit(); err != nil {
			c.closeErr = fmt.Errorf("failed to uninitialize audio context: %w", err)
		}
		c.audioContext.Free()
	})
	return c.closeErr
}
