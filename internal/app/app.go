package app

import (
	"context"

	"github.com/rs/zerolog"

	"statwire/internal/config"
	"statwire/internal/draft"
	"statwire/internal/editorial"
	"statwire/internal/fetcher"
	"statwire/internal/gate"
	"statwire/internal/period"
	"statwire/internal/snapshot"
	"statwire/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI
// commands. Each stage is a separate invocation reading the prior
// stage's persisted output; the caller guarantees only one pipeline
// run per dataset is in flight at a time.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// StageOptions select the dataset and optional explicit target period
// for a pipeline stage. When Period is empty the stage auto-detects
// it from the newest persisted artifact of the prior stage.
type StageOptions struct {
	Dataset string
	Period  string
}

// BackfillOptions configure the historical normalization loop.
type BackfillOptions struct {
	Dataset string
	From    string
	To      string
	DryRun  bool
}

// ExportOptions configure trend export.
type ExportOptions struct {
	Dataset string
	Period  string
	PNGPath string
	CSVPath string
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Dataset string
	Limit   int
}

func (a *App) store() *snapshot.Store {
	return snapshot.NewStore(a.Config.Storage.Root, a.Logger)
}

func (a *App) newFetcher() fetcher.SeriesFetcher {
	return fetcher.NewClient(fetcher.Options{
		BaseURL:         a.Config.API.BaseURL,
		RegistrationKey: a.Config.API.RegistrationKey,
		Timeout:         a.Config.API.RequestTimeout,
		UserAgent:       a.Config.API.UserAgent,
	}, a.Logger)
}

func (a *App) newDrafter() draft.Drafter {
	return draft.NewGemini(draft.GeminiOptions{
		APIKey:      a.Config.AI.APIKey,
		Model:       a.Config.AI.Model,
		Temperature: a.Config.AI.Temperature,
	}, a.Logger)
}

// newAuditor returns nil when the richer consistency audit is
// disabled; the gate then decides on deterministic checks alone.
func (a *App) newAuditor() gate.Auditor {
	if !a.Config.AI.AuditEnabled {
		return nil
	}
	return draft.NewGemini(draft.GeminiOptions{
		APIKey:      a.Config.AI.APIKey,
		Model:       a.Config.AI.Model,
		Temperature: a.Config.AI.Temperature,
	}, a.Logger)
}

// openArchive returns the optional Postgres release archive; nil when
// database.dsn is not configured.
func (a *App) openArchive(ctx context.Context) (*storage.Archive, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	archive := storage.NewArchive(pool)
	closer := func() {
		archive.Close()
	}
	return archive, closer, nil
}

// resolvePeriod parses an explicit --period value.
func resolvePeriod(explicit string) (period.Period, bool, error) {
	if explicit == "" {
		return period.Period{}, false, nil
	}
	p, err := period.Parse(explicit)
	if err != nil {
		return period.Period{}, false, err
	}
	return p, true, nil
}

// lockedFields returns the authoritative locked editorial fields:
// the production document's when one exists, configuration defaults
// otherwise.
func lockedFields(ds config.DatasetConfig, production *snapshot.Document) (editorial.Signal, string, string) {
	if production != nil {
		return production.Signal, production.Source, production.MethodologyNotes
	}
	defaults := ds.LockedDefaults()
	return defaults.Signal, defaults.Source, defaults.MethodologyNotes
}
