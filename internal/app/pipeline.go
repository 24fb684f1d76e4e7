package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wordbuddy/internal/adapter/postgres"
	"github.com/heartmarshall/wordbuddy/internal/adapter/postgres/history"
	"github.com/heartmarshall/wordbuddy/internal/adapter/provider/freedict"
	"github.com/heartmarshall/wordbuddy/internal/audio"
	"github.com/heartmarshall/wordbuddy/internal/config"
	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/eventbus"
	"github.com/heartmarshall/wordbuddy/internal/service/lookup"
)

const silentMinDuration = 300 * time.Millisecond

type historyStore interface {
	Record(ctx context.Context, rec *domain.LookupRecord) error
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.LookupRecord, error)
}

type loadingNotifier interface {
	SetLoading(ctx context.Context, loading bool)
}

// pipeline holds the lookup service and the resources it owns.
type pipeline struct {
	bus     *eventbus.Bus
	service *lookup.Service
	pool    *pgxpool.Pool
	history historyStore
}

// newPipeline wires the dictionary provider, the audio stack and the
// optional journal into a lookup service. The service is not started.
func newPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger, bus *eventbus.Bus, notifier loadingNotifier) (*pipeline, error) {
	p := &pipeline{bus: bus}

	if cfg.Database.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		p.pool = pool
		p.history = history.New(pool)
		logger.Info("lookup journal enabled")
	}

	dict := freedict.NewProvider(cfg.Dictionary, logger)
	deps := lookup.Deps{
		Client:   dict,
		Parser:   dict,
		Notifier: notifier,
		History:  p.history,
		Bus:      bus,
	}

	if cfg.Audio.Enabled {
		player, err := newPlayer(cfg.Audio, logger)
		if err != nil {
			p.close()
			return nil, err
		}
		deps.Decoder = audio.MP3Decoder{}
		deps.Player = player
	}

	p.service = lookup.NewService(logger, deps)
	return p, nil
}

func newPlayer(cfg config.AudioConfig, logger *slog.Logger) (lookupPlayer, error) {
	switch cfg.Player {
	case config.PlayerCommand:
		player, err := audio.NewCommandPlayer(config.CommandArgs(cfg.Command), logger)
		if err != nil {
			return nil, fmt.Errorf("audio player: %w", err)
		}
		return player, nil
	default:
		return audio.SilentPlayer{MinDuration: silentMinDuration}, nil
	}
}

type lookupPlayer interface {
	Play(ctx context.Context, clip *audio.Clip) error
}

// close stops the service and releases the journal pool.
func (p *pipeline) close() {
	if p.service != nil {
		p.service.Close()
	}
	if p.pool != nil {
		p.pool.Close()
	}
}
