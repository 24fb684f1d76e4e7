package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

// Lookup fetches and parses the definition of word, publishes the outcome
// on the bus and, when the response carries a pronunciation, starts
// playback in the background.
//
// The loading indicator is shown for the duration of the request. A
// lookup that is superseded or whose ctx ends publishes nothing and returns
// an error wrapping the cancellation cause (ErrSuperseded, ErrClosed or
// ctx.Err()).
func (s *Service) Lookup(ctx context.Context, word string) (*provider.LookupResult, error) {
	// Count this lookup before canceling the previous one so the
	// indicator does not flicker off in between.
	s.setLoading(ctx, 1)

	gen := s.supersede()
	rec := &domain.LookupRecord{ID: gen.id, Word: word, CreatedAt: time.Now().UTC()}
	// The indicator goes off before the journal write.
	defer func() {
		s.setLoading(ctx, -1)
		s.record(ctx, rec)
	}()

	runCtx, stop := joinCancel(ctx, gen.ctx)
	defer stop()

	log := s.log.With(slog.String("lookup_id", gen.id.String()), slog.String("word", word))

	body, err := s.client.FetchDefinition(runCtx, word)
	if runCtx.Err() != nil {
		return nil, s.canceled(runCtx, log, rec)
	}
	if err != nil {
		msg := FailureMessage(err)
		log.ErrorContext(ctx, "definition request failed", slog.String("error", err.Error()))
		rec.Finish(domain.OutcomeFailed, msg, statusCode(err))
		s.bus.ParseFailed.Publish(ctx, msg)
		return nil, fmt.Errorf("lookup: fetch definition: %w", err)
	}

	result, err := s.parser.Parse(body)
	if runCtx.Err() != nil {
		return nil, s.canceled(runCtx, log, rec)
	}
	if err != nil {
		msg := FailureMessage(err)
		log.WarnContext(ctx, "definition parse failed", slog.String("error", err.Error()))
		rec.Finish(domain.OutcomeFailed, msg, nil)
		s.bus.ParseFailed.Publish(ctx, msg)
		return nil, fmt.Errorf("lookup: parse: %w", err)
	}

	log.DebugContext(ctx, "definition resolved",
		slog.String("entry", result.Word),
		slog.String("definition", result.Definition.Text),
		slog.String("example", result.Definition.Example),
	)
	rec.Succeed(result.Definition, result.AudioURL)
	s.bus.ParseSucceeded.Publish(ctx, result.Definition)

	if result.HasAudio() && s.audioEnabled() {
		audioURL := *result.AudioURL
		audioCtx := context.WithoutCancel(ctx)
		s.goTracked(func() {
			s.playAudio(audioCtx, gen, audioURL)
		})
	}

	return result, nil
}

func (s *Service) canceled(runCtx context.Context, log *slog.Logger, rec *domain.LookupRecord) error {
	cause := context.Cause(runCtx)
	msg := cause.Error()
	rec.Finish(domain.OutcomeCanceled, msg, nil)
	log.InfoContext(runCtx, "lookup canceled", slog.String("cause", msg))
	return fmt.Errorf("lookup: %w", cause)
}

func (s *Service) record(ctx context.Context, rec *domain.LookupRecord) {
	if rec.Outcome == "" {
		return
	}
	rec.Duration = time.Since(rec.CreatedAt)
	if s.history == nil {
		return
	}
	if err := s.history.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.log.WarnContext(ctx, "record lookup",
			slog.String("lookup_id", rec.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) audioEnabled() bool {
	return s.decoder != nil && s.player != nil
}

// joinCancel returns a child of parent that is also canceled, with the
// same cause, when scope is.
func joinCancel(parent, scope context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	stopAfter := context.AfterFunc(scope, func() {
		cancel(context.Cause(scope))
	})
	return ctx, func() {
		stopAfter()
		cancel(nil)
	}
}
