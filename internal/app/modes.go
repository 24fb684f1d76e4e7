package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/heartmarshall/wordbuddy/internal/adapter/postgres"
	"github.com/heartmarshall/wordbuddy/internal/adapter/postgres/history"
	"github.com/heartmarshall/wordbuddy/internal/config"
	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/eventbus"
	"github.com/heartmarshall/wordbuddy/internal/presentation"
)

const replBanner = "wordbuddy: type a word and press enter, :q to quit"

func runREPL(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) error {
	bus := eventbus.New()
	term := presentation.NewTerminal(opts.Out, bus)

	p, err := newPipeline(ctx, cfg, logger, bus, term)
	if err != nil {
		return err
	}
	defer p.close()

	term.Start()
	defer term.Close()
	p.service.Start()

	fmt.Fprintln(opts.Out, replBanner)
	return presentation.NewREPL(logger, opts.In, opts.Out, bus, term).Run(ctx)
}

// runLookup resolves one word, renders it and waits for the pronunciation
// to finish playing.
func runLookup(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) error {
	bus := eventbus.New()
	term := presentation.NewTerminal(opts.Out, bus)

	state := presentation.CheckWord(opts.Word)
	if !state.Enabled {
		term.ShowGate(state)
		return fmt.Errorf("%w: %q", ErrLookupFailed, opts.Word)
	}

	p, err := newPipeline(ctx, cfg, logger, bus, term)
	if err != nil {
		return err
	}
	defer p.close()

	term.Start()
	defer term.Close()

	if _, err := p.service.Lookup(ctx, opts.Word); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	p.service.Wait()
	return nil
}

func runHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) error {
	if !cfg.Database.Enabled() {
		return fmt.Errorf("history: %w (set DATABASE_DSN)", domain.ErrJournalDisabled)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	records, err := history.New(pool).List(ctx, domain.HistoryFilter{
		Word:  opts.HistoryWord,
		Limit: opts.HistoryLimit,
	})
	if err != nil {
		return err
	}

	logger.Debug("history listed", slog.Int("records", len(records)))
	return writeHistory(opts.Out, records)
}

func writeHistory(w io.Writer, records []domain.LookupRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no lookups recorded")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tWORD\tOUTCOME\tDURATION\tDETAIL")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.Word,
			rec.Outcome,
			rec.Duration.Round(time.Millisecond),
			historyDetail(rec),
		)
	}
	return tw.Flush()
}

func historyDetail(rec domain.LookupRecord) string {
	switch {
	case rec.Outcome == domain.OutcomeSucceeded && rec.Definition != nil:
		return *rec.Definition
	case rec.Message != nil:
		return *rec.Message
	default:
		return ""
	}
}

func runMigrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.Database.Enabled() {
		return errors.New("migrate: database.dsn is not set")
	}

	applied, err := postgres.Migrate(ctx, cfg.Database.DSN, logger)
	if err != nil {
		return err
	}

	logger.Info("migrations complete", slog.Int("applied", applied))
	return nil
}
