package lookup

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/wordbuddy/internal/domain"
)

// playAudio downloads, decodes and plays a pronunciation, publishing
// Talking before playback and Idle after it. Failures are logged and
// never reach the user. Playback stops early when gen is superseded.
func (s *Service) playAudio(ctx context.Context, gen *generation, audioURL string) {
	log := s.log.With(slog.String("lookup_id", gen.id.String()), slog.String("audio_url", audioURL))

	playCtx, stop := joinCancel(ctx, gen.ctx)
	defer stop()

	data, err := s.client.FetchAudio(playCtx, audioURL)
	if err != nil {
		if playCtx.Err() == nil {
			log.WarnContext(ctx, "audio download failed", slog.String("error", err.Error()))
		}
		return
	}

	clip, err := s.decoder.Decode(data)
	if err != nil {
		log.WarnContext(ctx, "audio decode failed", slog.String("error", err.Error()))
		return
	}
	defer clip.Release()

	s.audioMu.Lock()
	defer s.audioMu.Unlock()

	if playCtx.Err() != nil {
		return
	}

	s.bus.CharacterStateChanged.Publish(ctx, domain.CharacterTalking)
	err = s.player.Play(playCtx, clip)
	s.bus.CharacterStateChanged.Publish(ctx, domain.CharacterIdle)

	switch {
	case playCtx.Err() != nil:
		log.DebugContext(ctx, "playback interrupted", slog.String("cause", context.Cause(playCtx).Error()))
	case err != nil:
		log.WarnContext(ctx, "playback failed", slog.String("error", err.Error()))
	default:
		log.DebugContext(ctx, "playback finished", slog.Duration("duration", clip.Duration))
	}
}
