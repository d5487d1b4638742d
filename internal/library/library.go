package library

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"easel/internal/asset"
	"easel/internal/config"
	"easel/internal/logging"
	"easel/internal/providers"
	"easel/internal/statedb"
)

// Migrator re-homes an asset whose content URI has expired. Implementations
// re-fetch or re-upload the content and return the replacement asset record.
type Migrator interface {
	Migrate(ctx context.Context, a *asset.Asset) (*asset.Asset, error)
}

// Library holds all application state behind a single mutex.
type Library struct {
	mu     sync.Mutex
	cfg    *config.Config
	store  *statedb.Store
	logger *slog.Logger
	now    func() time.Time

	assets         map[string]*asset.Asset
	steps          map[string]*Step
	canvases       []*asset.Canvas
	activeCanvasID string
	gallery        []asset.GalleryImage
	paramsByKey    map[string]providers.Params
	selected       map[string]struct{}

	blobs      *BlobStore
	httpClient *http.Client
	migrator   Migrator

	hydrating         bool
	hydrated          bool
	migrationCooldown *cooldown
}

// Option customizes library construction.
type Option func(*Library)

// WithClock injects a deterministic time source.
func WithClock(now func() time.Time) Option {
	return func(l *Library) {
		if now != nil {
			l.now = now
			l.migrationCooldown.now = now
		}
	}
}

// WithHTTPClient overrides the client used for exports and reachability
// probes.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Library) {
		if client != nil {
			l.httpClient = client
		}
	}
}

// WithMigrator injects the asset migration strategy used when content URIs
// expire. Without one, expired assets are left as-is.
func WithMigrator(m Migrator) Option {
	return func(l *Library) {
		l.migrator = m
	}
}

// New constructs a library over the given state store.
func New(cfg *config.Config, store *statedb.Store, logger *slog.Logger, opts ...Option) *Library {
	l := &Library{
		cfg:         cfg,
		store:       store,
		logger:      logging.WithComponent(logger, "library"),
		now:         func() time.Time { return time.Now().UTC() },
		assets:      make(map[string]*asset.Asset),
		steps:       make(map[string]*Step),
		paramsByKey: make(map[string]providers.Params),
		selected:    make(map[string]struct{}),
		blobs:       NewBlobStore(),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	l.migrationCooldown = newCooldown(time.Duration(cfg.Library.MigrationCooldownSec) * time.Second)
	for _, opt := range opts {
		opt(l)
	}
	l.migrationCooldown.now = l.now
	return l
}

// snapshot is the persisted form of the whole application state. The
// current selection is deliberately not part of it.
type snapshot struct {
	Assets         map[string]*asset.Asset     `json:"assets"`
	Steps          map[string]*Step            `json:"steps"`
	ParamsByKey    map[string]providers.Params `json:"params_by_key,omitempty"`
	Gallery        []asset.GalleryImage        `json:"gallery_images,omitempty"`
	Canvases       []*asset.Canvas             `json:"canvases,omitempty"`
	ActiveCanvasID string                      `json:"active_canvas_id,omitempty"`
}

// Persist writes the current state as one snapshot, overwriting the
// previous one. Failures are logged and surfaced but never roll back the
// in-memory state.
func (l *Library) Persist(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.persistLocked(ctx)
}

func (l *Library) persistLocked(ctx context.Context) error {
	snap := snapshot{
		Assets:         l.assets,
		Steps:          l.steps,
		ParamsByKey:    l.paramsByKey,
		Gallery:        l.gallery,
		Canvases:       l.canvases,
		ActiveCanvasID: l.activeCanvasID,
	}
	encoded, err := json.Marshal(snap)
	if err != nil {
		l.logger.Error("encode snapshot failed", slog.Any("error", err))
		return err
	}
	if err := l.store.Set(ctx, statedb.SnapshotKey, encoded); err != nil {
		l.logger.Error("persist snapshot failed", slog.Any("error", err))
		return err
	}
	return nil
}

// Hydrate loads the persisted snapshot into memory. It is guarded against
// concurrent re-entry since several startup paths may race to hydrate. On
// first run with no persisted assets, demo placeholder assets are seeded so
// the application is never empty. A storage-optimization pass is scheduled
// after a successful load.
func (l *Library) Hydrate(ctx context.Context) error {
	l.mu.Lock()
	if l.hydrating || l.hydrated {
		l.mu.Unlock()
		return nil
	}
	l.hydrating = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.hydrating = false
		l.mu.Unlock()
	}()

	value, found, err := l.store.Get(ctx, statedb.SnapshotKey)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if found {
		var snap snapshot
		if err := json.Unmarshal(value, &snap); err != nil {
			l.mu.Unlock()
			l.logger.Error("decode snapshot failed, starting empty", slog.Any("error", err))
			return err
		}
		if snap.Assets != nil {
			l.assets = snap.Assets
		}
		if snap.Steps != nil {
			l.steps = snap.Steps
		}
		if snap.ParamsByKey != nil {
			l.paramsByKey = snap.ParamsByKey
		}
		l.gallery = snap.Gallery
		l.canvases = snap.Canvases
		l.activeCanvasID = snap.ActiveCanvasID
	}

	seeded := false
	if len(l.assets) == 0 && l.cfg.Library.SeedDemoAssets {
		for _, demo := range demoAssets(l.now()) {
			l.assets[demo.ID] = demo
		}
		seeded = true
	}
	l.hydrated = true
	l.mu.Unlock()

	if seeded {
		if err := l.Persist(ctx); err != nil {
			l.logger.Warn("persist seeded state failed", slog.Any("error", err))
		}
	}

	l.logger.Info("library hydrated",
		slog.Int("assets", l.AssetCount()),
		slog.Int("steps", len(l.Steps())),
		slog.Bool("seeded", seeded))

	// A fresh empty library has nothing to trim or migrate.
	if found || seeded {
		go func() {
			if err := l.OptimizeStorage(context.Background()); err != nil {
				l.logger.Warn("storage optimization failed", slog.Any("error", err))
			}
		}()
	}

	return nil
}
