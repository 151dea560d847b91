package region

import (
	// Standard libraries
	"context"
	"errors"
	"time"

	// Go files
	"github.com/Niutaq/Storelink/pkg/stores"

	// External utilities
	"go.uber.org/zap"
)

// Resolver picks the visitor's storefront and remembers the decision in a Slot.
//
// Resolution order, first success wins:
//  1. a valid override (persisted)
//  2. a fresh cached decision with a valid code (not re-persisted)
//  3. the first locale rule matching the visitor's languages, in preference order (persisted)
//  4. the timezone rules (persisted)
//  5. stores.DefaultCode (persisted)
//
// Slot and signal failures never leave Resolve; they only skip a tier.
type Resolver struct {
	slot    Slot
	signals Signals
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithTTL overrides DefaultTTL
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithLogger sets the logger used for swallowed failures
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver - nil slot or signals are replaced by an in-memory slot and empty signals
func NewResolver(slot Slot, signals Signals, opts ...Option) *Resolver {
	if slot == nil {
		slot = NewMemorySlot()
	}
	if signals == nil {
		signals = StaticSignals{}
	}
	r := &Resolver{
		slot:    slot,
		signals: signals,
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a valid region code; it never fails.
// The override must be an exact store code: "uk" or " UK" are ignored like any unknown value.
func (r *Resolver) Resolve(ctx context.Context, override string) string {
	if override != "" {
		if stores.Valid(override) {
			return r.remember(ctx, override, "override")
		}
		r.logger.Debug("ignoring unknown region override", zap.String("override", override))
	}

	if code, ok := r.cached(ctx); ok {
		return code
	}

	if code, ok := MatchLocales(r.languages()); ok {
		return r.remember(ctx, code, "locale")
	}

	if tz, err := r.signals.TimeZone(); err != nil {
		r.logger.Debug("timezone unavailable", zap.Error(err))
	} else if code, ok := Match(TimeZoneRules, tz); ok {
		return r.remember(ctx, code, "timezone")
	}

	return r.remember(ctx, stores.DefaultCode, "default")
}

// cached - reads and validates the slot value
func (r *Resolver) cached(ctx context.Context) (string, bool) {
	raw, err := r.slot.Get(ctx)
	if err != nil {
		if !errors.Is(err, ErrSlotEmpty) {
			r.logger.Debug("region cache read failed", zap.Error(err))
		}
		return "", false
	}

	entry, err := DecodeEntry(raw)
	if err != nil {
		r.logger.Debug("region cache unreadable", zap.Error(err))
		return "", false
	}
	if entry.Expired(r.now(), r.ttl) {
		r.logger.Debug("region cache expired", zap.String("code", entry.Code))
		return "", false
	}
	if !stores.Valid(entry.Code) {
		r.logger.Debug("region cache holds unknown code", zap.String("code", entry.Code))
		return "", false
	}
	return entry.Code, true
}

// languages - preference list, or a single empty preference when unavailable
func (r *Resolver) languages() []string {
	langs, err := r.signals.Languages()
	if err != nil || len(langs) == 0 {
		if err != nil {
			r.logger.Debug("languages unavailable", zap.Error(err))
		}
		return []string{""}
	}
	return langs
}

// remember persists code and returns it; a failed write is logged and ignored
func (r *Resolver) remember(ctx context.Context, code, source string) string {
	raw, err := NewEntry(code, r.now()).Encode()
	if err == nil {
		err = r.slot.Set(ctx, raw)
	}
	if err != nil {
		r.logger.Debug("region cache write failed", zap.String("code", code), zap.Error(err))
	}
	r.logger.Debug("region resolved", zap.String("code", code), zap.String("source", source))
	return code
}
