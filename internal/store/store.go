// Package store holds the loaded, normalized dataset and ties together
// fetching, workbook parsing, normalization, and target loading. A Snapshot
// is immutable once built; a refresh swaps in a whole new one.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cleanbrook/watertrend/internal/config"
	"github.com/cleanbrook/watertrend/internal/fetch"
	"github.com/cleanbrook/watertrend/internal/normalize"
	"github.com/cleanbrook/watertrend/internal/target"
	"github.com/cleanbrook/watertrend/internal/workbook"
)

// Snapshot is one fully loaded dataset. Rows and Targets are never mutated
// after Load returns, so concurrent readers need no locking.
type Snapshot struct {
	LoadID   uuid.UUID
	LoadedAt time.Time
	Source   string
	Rows     []normalize.MeasurementRow
	Targets  []target.Threshold
}

// Types returns the distinct non-empty Type values, sorted.
func (s *Snapshot) Types() []string {
	return distinct(s.Rows, func(r normalize.MeasurementRow) string { return r.Type })
}

// Parameters returns the distinct parameters, optionally scoped to one type.
func (s *Snapshot) Parameters(typ string) []string {
	return distinct(s.Rows, func(r normalize.MeasurementRow) string {
		if typ != "" && r.Type != typ {
			return ""
		}
		return r.Parameter
	})
}

// Sites returns the distinct site ids carrying the given type/parameter.
func (s *Snapshot) Sites(typ, parameter string) []string {
	return distinct(s.Rows, func(r normalize.MeasurementRow) string {
		if typ != "" && r.Type != typ {
			return ""
		}
		if parameter != "" && r.Parameter != parameter {
			return ""
		}
		return r.SiteID
	})
}

// MonthRange returns the earliest and latest month present in the dataset.
// ok=false when the dataset is empty.
func (s *Snapshot) MonthRange() (min, max time.Time, ok bool) {
	for _, r := range s.Rows {
		if !ok || r.MonthStart.Before(min) {
			min = r.MonthStart
		}
		if !ok || r.MonthStart.After(max) {
			max = r.MonthStart
		}
		ok = true
	}
	return min, max, ok
}

func distinct(rows []normalize.MeasurementRow, key func(normalize.MeasurementRow) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		k := key(r)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Loader builds Snapshots from the configured sources. The current snapshot
// is reused across filter interactions; Refresh discards it along with the
// underlying fetch cache entries.
type Loader struct {
	cfg    *config.Global
	cache  *fetch.Cache
	logger *slog.Logger

	mu      sync.Mutex
	current *Snapshot
}

// NewLoader wires a Loader over the given config and fetch cache.
func NewLoader(cfg *config.Global, cache *fetch.Cache, logger *slog.Logger) *Loader {
	return &Loader{cfg: cfg, cache: cache, logger: logger}
}

// Current returns the loaded snapshot, loading it on first use.
func (l *Loader) Current(ctx context.Context) (*Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != nil {
		return l.current, nil
	}
	snap, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	l.current = snap
	return snap, nil
}

// Refresh invalidates the fetch cache for both sources and loads a fresh
// snapshot. On failure the previous snapshot is discarded: either the full
// normalized table is available or the caller sees the error.
func (l *Loader) Refresh(ctx context.Context) (*Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cfg.ExcelURL != "" {
		l.cache.Invalidate(l.cfg.ExcelURL)
	}
	if l.cfg.TargetsURL != "" {
		l.cache.Invalidate(l.cfg.TargetsURL)
	}
	l.current = nil
	snap, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	l.current = snap
	return snap, nil
}

func (l *Loader) load(ctx context.Context) (*Snapshot, error) {
	source := l.cfg.ExcelURL
	var data []byte
	var err error
	if source != "" {
		data, err = l.cache.Get(ctx, source)
	} else {
		source = l.cfg.LocalWorkbook
		data, err = fetch.ReadLocal(source)
	}
	if err != nil {
		return nil, fmt.Errorf("load workbook: %w", err)
	}

	table, err := workbook.Read(data)
	if err != nil {
		return nil, fmt.Errorf("parse workbook: %w", err)
	}
	rows, err := normalize.Normalize(table)
	if err != nil {
		return nil, fmt.Errorf("normalize workbook: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s produced no usable measurement rows", source)
	}

	snap := &Snapshot{
		LoadID:   uuid.New(),
		LoadedAt: time.Now().UTC(),
		Source:   source,
		Rows:     rows,
		Targets:  l.loadTargets(ctx),
	}
	l.logger.Info("dataset loaded",
		"load_id", snap.LoadID.String(),
		"source", source,
		"rows", len(rows),
		"targets", len(snap.Targets),
	)
	return snap, nil
}

// loadTargets is best-effort: a missing or malformed threshold table means
// charts render without a target line, never a failed refresh.
func (l *Loader) loadTargets(ctx context.Context) []target.Threshold {
	var data []byte
	var err error
	if l.cfg.TargetsURL != "" {
		data, err = l.cache.Get(ctx, l.cfg.TargetsURL)
	} else {
		data, err = fetch.ReadLocal(l.cfg.LocalTargets)
	}
	if err != nil {
		l.logger.Warn("targets unavailable", "error", err)
		return nil
	}
	thresholds, err := target.LoadCSV(data)
	if err != nil {
		l.logger.Warn("targets table malformed", "error", err)
		return nil
	}
	return thresholds
}
