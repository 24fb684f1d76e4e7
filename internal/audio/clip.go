// Package audio decodes pronunciation clips and plays them back.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/go-mp3"

	"github.com/heartmarshall/wordbuddy/internal/domain"
)

// go-mp3 always produces 16-bit little-endian stereo PCM.
const bytesPerFrame = 4

// Clip is a decoded pronunciation. Encoded keeps the original MP3 bytes for
// players that shell out to an external decoder.
type Clip struct {
	Encoded    []byte
	PCM        []byte
	SampleRate int
	Duration   time.Duration
}

// Decode parses an MP3 payload into a Clip.
func Decode(data []byte) (*Clip, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("audio: decode: empty payload: %w", domain.ErrAudio)
	}

	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("audio: decode: %w: %w", domain.ErrAudio, err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("audio: decode: read pcm: %w: %w", domain.ErrAudio, err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("audio: decode: no samples: %w", domain.ErrAudio)
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		return nil, fmt.Errorf("audio: decode: invalid sample rate %d: %w", rate, domain.ErrAudio)
	}

	return &Clip{
		Encoded:    data,
		PCM:        pcm,
		SampleRate: rate,
		Duration:   pcmDuration(int64(len(pcm)), rate),
	}, nil
}

func pcmDuration(n int64, sampleRate int) time.Duration {
	frames := n / bytesPerFrame
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

// Release drops the clip's buffers once playback is over.
func (c *Clip) Release() {
	if c == nil {
		return
	}
	c.Encoded = nil
	c.PCM = nil
}

// Player plays a clip to completion. Play blocks until playback ends or ctx
// is done, in which case it returns ctx.Err().
type Player interface {
	Play(ctx context.Context, clip *Clip) error
}

// MP3Decoder adapts Decode to the decoder dependency of the lookup service.
type MP3Decoder struct{}

// Decode calls the package-level Decode.
func (MP3Decoder) Decode(data []byte) (*Clip, error) { return Decode(data) }
