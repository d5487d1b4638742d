package library

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// cooldown rate-limits a maintenance task with an injectable clock.
type cooldown struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func newCooldown(interval time.Duration) *cooldown {
	return &cooldown{
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// tryAcquire reports whether the task may run now, and if so records the
// attempt time.
func (c *cooldown) tryAcquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if !c.last.IsZero() && now.Sub(c.last) < c.interval {
		return false
	}
	c.last = now
	return true
}

// OptimizeStorage trims state above the retention limits and migrates
// assets whose content URIs have expired, then persists the trimmed state.
func (l *Library) OptimizeStorage(ctx context.Context) error {
	l.mu.Lock()

	canvasLimit := l.cfg.Library.CanvasLimit
	if len(l.canvases) > canvasLimit {
		sort.Slice(l.canvases, func(i, j int) bool {
			return l.canvases[i].CreatedAt.After(l.canvases[j].CreatedAt)
		})
		l.canvases = l.canvases[:canvasLimit]
	}

	stepLimit := l.cfg.Library.StepRetention
	if len(l.steps) > stepLimit {
		ordered := make([]*Step, 0, len(l.steps))
		for _, step := range l.steps {
			ordered = append(ordered, step)
		}
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].UpdatedAt.After(ordered[j].UpdatedAt)
		})
		for _, victim := range ordered[stepLimit:] {
			delete(l.steps, victim.ID)
		}
	}
	l.mu.Unlock()

	l.MigrateExpiredAssets(ctx)

	return l.Persist(ctx)
}

// MigrateExpiredAssets re-homes assets whose content URI no longer
// resolves and returns how many records were migrated and how many
// attempts failed. The pass is rate-limited by the configured cooldown;
// within the window it is a silent no-op. Per-asset failures are logged
// and the stale record is left in place.
func (l *Library) MigrateExpiredAssets(ctx context.Context) (migrated, failed int) {
	if !l.migrationCooldown.tryAcquire() {
		l.logger.Debug("asset migration skipped, cooling down")
		return 0, 0
	}
	if l.migrator == nil {
		return 0, 0
	}
	for _, a := range l.Assets() {
		if l.uriReachable(ctx, a.Src) {
			continue
		}
		replacement, err := l.migrator.Migrate(ctx, a)
		if err != nil {
			failed++
			l.logger.Warn("asset migration failed",
				slog.String("asset_id", a.ID),
				slog.Any("error", err))
			continue
		}
		if replacement == nil || replacement.ID != a.ID {
			failed++
			l.logger.Warn("asset migration returned mismatched record", slog.String("asset_id", a.ID))
			continue
		}
		l.mu.Lock()
		l.assets[a.ID] = replacement.Clone()
		l.mu.Unlock()
		migrated++
	}

	if migrated > 0 || failed > 0 {
		l.logger.Info("asset migration finished",
			slog.Int("migrated", migrated),
			slog.Int("failed", failed))
		_ = l.Persist(ctx)
	}
	return migrated, failed
}

// uriReachable probes whether an asset's content URI still resolves. Data
// URIs are self-contained, local blobs resolve through the blob store, and
// remote URLs get a HEAD probe.
func (l *Library) uriReachable(ctx context.Context, uri string) bool {
	switch {
	case strings.HasPrefix(uri, "data:"):
		return true
	case strings.HasPrefix(uri, blobScheme):
		_, ok := l.blobs.Resolve(uri)
		return ok
	case strings.HasPrefix(uri, "blob:"):
		// Foreign blob URIs from a previous session can never resolve.
		return false
	default:
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, uri, nil)
		if err != nil {
			return false
		}
		resp, err := l.httpClient.Do(req)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode < 400
	}
}

// Stats summarizes library contents for the status surface.
type Stats struct {
	Assets      int
	Steps       int
	StepsByStat map[StepStatus]int
	Canvases    int
	Gallery     int
}

// Snapshot of the library counts.
func (l *Library) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	stats := Stats{
		Assets:      len(l.assets),
		Steps:       len(l.steps),
		StepsByStat: make(map[StepStatus]int),
		Canvases:    len(l.canvases),
		Gallery:     len(l.gallery),
	}
	for _, step := range l.steps {
		stats.StepsByStat[step.Status]++
	}
	return stats
}
