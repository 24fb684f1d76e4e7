package audio

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordbuddy/internal/domain"
)

// silentMP3 builds n MPEG-1 Layer III frames (128 kbit/s, 44.1 kHz, stereo)
// with zeroed side info, which decode to silence.
func silentMP3(n int) []byte {
	const frameSize = 144 * 128000 / 44100 // 417 bytes, no padding
	frame := make([]byte, frameSize)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x04})
	return bytes.Repeat(frame, n)
}

func TestDecode_SilentFrames(t *testing.T) {
	t.Parallel()

	data := silentMP3(10)
	clip, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, 44100, clip.SampleRate)
	assert.NotEmpty(t, clip.PCM)
	assert.Equal(t, data, clip.Encoded)
	assert.Greater(t, clip.Duration, time.Duration(0))
	assert.Less(t, clip.Duration, time.Second)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"empty":   nil,
		"garbage": []byte("<html>not audio</html>"),
	} {
		_, err := Decode(data)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, domain.ErrAudio), "%s: %v", name, err)
	}
}

func TestPCMDuration(t *testing.T) {
	t.Parallel()

	// One second of 16-bit stereo at 44.1 kHz.
	assert.Equal(t, time.Second, pcmDuration(44100*4, 44100))
	assert.Equal(t, 500*time.Millisecond, pcmDuration(22050*4, 44100))
	assert.Equal(t, time.Duration(0), pcmDuration(3, 44100))
}

func TestClip_Release(t *testing.T) {
	t.Parallel()

	clip := &Clip{Encoded: []byte{1}, PCM: []byte{2}}
	clip.Release()
	assert.Nil(t, clip.Encoded)
	assert.Nil(t, clip.PCM)

	var nilClip *Clip
	assert.NotPanics(t, nilClip.Release)
}
