// Package selector holds the user's current mode and option choices for each
// workflow. Selection never validates; an empty value is a legal, incomplete
// state that the validator catches at submission.
package selector

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/dtnitsch/docmark/models"
)

// Store persists the last selected values so they act as defaults for the
// next run.
type Store interface {
	Load() (map[string]string, error)
	Save(values map[string]string) error
}

const (
	keyMode         = "mode"
	keyOutputMode   = "output_mode"
	keyIncludeClean = "include_clean"
	keyPosition     = "position"
)

// ExtractSelector owns the extract workflow's selection state.
type ExtractSelector struct {
	mu     sync.RWMutex
	opts   models.ExtractOptions
	store  Store
	logger *slog.Logger
}

// NewExtractSelector seeds the selection from store when one is given.
// A nil store keeps the state in memory only.
func NewExtractSelector(store Store, logger *slog.Logger) *ExtractSelector {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ExtractSelector{store: store, logger: logger}
	if store == nil {
		return s
	}

	values, err := store.Load()
	if err != nil {
		logger.Warn("selector.load_failed", "workflow", "extract", "error", err)
		return s
	}
	if m, ok := restore(logger, "extract", keyMode, values[keyMode], models.ParseMode); ok {
		s.opts.Mode = m
	}
	if om, ok := restore(logger, "extract", keyOutputMode, values[keyOutputMode], models.ParseOutputMode); ok {
		s.opts.OutputMode = om
	}
	if v, ok := restore(logger, "extract", keyIncludeClean, values[keyIncludeClean], strconv.ParseBool); ok {
		s.opts.IncludeClean = v
	}
	return s
}

// restore parses a stored value. Unknown values are logged and dropped so
// they never reach a request.
func restore[T any](logger *slog.Logger, workflow, key, value string, parse func(string) (T, error)) (T, bool) {
	var zero T
	if value == "" {
		return zero, false
	}
	v, err := parse(value)
	if err != nil {
		logger.Warn("selector.stored_value_dropped", "workflow", workflow, "key", key, "value", value, "error", err)
		return zero, false
	}
	return v, true
}

// Options returns a copy of the current selection.
func (s *ExtractSelector) Options() models.ExtractOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// SelectMode replaces the current mode. Reselecting the current mode is a no-op.
func (s *ExtractSelector) SelectMode(m models.Mode) {
	s.update(func(o *models.ExtractOptions) bool {
		if o.Mode == m {
			return false
		}
		o.Mode = m
		return true
	})
}

func (s *ExtractSelector) SelectOutputMode(m models.OutputMode) {
	s.update(func(o *models.ExtractOptions) bool {
		if o.OutputMode == m {
			return false
		}
		o.OutputMode = m
		return true
	})
}

func (s *ExtractSelector) SetIncludeClean(v bool) {
	s.update(func(o *models.ExtractOptions) bool {
		if o.IncludeClean == v {
			return false
		}
		o.IncludeClean = v
		return true
	})
}

func (s *ExtractSelector) update(fn func(*models.ExtractOptions) bool) {
	s.mu.Lock()
	changed := fn(&s.opts)
	snapshot := s.opts
	s.mu.Unlock()

	if !changed || s.store == nil {
		return
	}
	values := map[string]string{
		keyMode:         string(snapshot.Mode),
		keyOutputMode:   string(snapshot.OutputMode),
		keyIncludeClean: strconv.FormatBool(snapshot.IncludeClean),
	}
	if err := s.store.Save(values); err != nil {
		s.logger.Warn("selector.save_failed", "workflow", "extract", "error", err)
	}
}

// StampSelector owns the stamp workflow's selection state.
type StampSelector struct {
	mu     sync.RWMutex
	opts   models.StampOptions
	store  Store
	logger *slog.Logger
}

func NewStampSelector(store Store, logger *slog.Logger) *StampSelector {
	if logger == nil {
		logger = slog.Default()
	}
	s := &StampSelector{store: store, logger: logger}
	if store == nil {
		return s
	}

	values, err := store.Load()
	if err != nil {
		logger.Warn("selector.load_failed", "workflow", "stamp", "error", err)
		return s
	}
	if p, ok := restore(logger, "stamp", keyPosition, values[keyPosition], models.ParsePosition); ok {
		s.opts.Position = p
	}
	return s
}

func (s *StampSelector) Options() models.StampOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// SelectPosition replaces the placement used for every attachment.
func (s *StampSelector) SelectPosition(p models.Position) {
	s.mu.Lock()
	if s.opts.Position == p {
		s.mu.Unlock()
		return
	}
	s.opts.Position = p
	s.mu.Unlock()

	if s.store == nil {
		return
	}
	if err := s.store.Save(map[string]string{keyPosition: string(p)}); err != nil {
		s.logger.Warn("selector.save_failed", "workflow", "stamp", "error", err)
	}
}
