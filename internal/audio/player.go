package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/heartmarshall/wordbuddy/internal/domain"
)

// SilentPlayer plays nothing but takes as long as the clip lasts, so the
// character still talks for the length of the word. It is the default on
// hosts without an audio device.
type SilentPlayer struct {
	// MinDuration keeps very short or empty clips visible for a moment.
	MinDuration time.Duration
}

// Play waits for the clip duration.
func (p SilentPlayer) Play(ctx context.Context, clip *Clip) error {
	d := clip.Duration
	if d < p.MinDuration {
		d = p.MinDuration
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CommandPlayer pipes the encoded clip into an external player such as
// "mpg123 -q -" or "ffplay -nodisp -autoexit -".
type CommandPlayer struct {
	args []string
	log  *slog.Logger
}

// NewCommandPlayer creates a CommandPlayer. args[0] is the executable.
func NewCommandPlayer(args []string, logger *slog.Logger) (*CommandPlayer, error) {
	if len(args) == 0 {
		return nil, errors.New("audio: command player: empty command")
	}
	return &CommandPlayer{
		args: args,
		log:  logger.With("adapter", "audio_command"),
	}, nil
}

// Play runs the command with the clip on stdin and waits for it to exit.
// Cancelling ctx kills the process.
func (p *CommandPlayer) Play(ctx context.Context, clip *Clip) error {
	cmd := exec.CommandContext(ctx, p.args[0], p.args[1:]...)
	cmd.Stdin = bytes.NewReader(clip.Encoded)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	p.log.DebugContext(ctx, "play clip",
		slog.String("command", p.args[0]),
		slog.Duration("duration", clip.Duration),
	)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("audio: %s: %w: %w (%s)", p.args[0], domain.ErrAudio, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
