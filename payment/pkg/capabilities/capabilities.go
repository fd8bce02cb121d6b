// Package capabilities holds the runtime kill-switches for payments: a global
// enabled flag, one flag per provider and a test-mode flag. The flags live in
// a shared store and are re-read on every request.
package capabilities

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mbakhodurov/week1/shared/pkg/apperr"
	"github.com/mbakhodurov/week1/shared/pkg/logging"
)

type Snapshot struct {
	Enabled   bool            `json:"enabled"`
	Providers map[string]bool `json:"providers"`
	TestMode  bool            `json:"testMode"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ProviderEnabled reports whether name is known and switched on.
func (s Snapshot) ProviderEnabled(name string) bool {
	return s.Providers[name]
}

func (s Snapshot) clone() Snapshot {
	cp := s
	cp.Providers = make(map[string]bool, len(s.Providers))
	for k, v := range s.Providers {
		cp.Providers[k] = v
	}
	return cp
}

// Update is a partial change; nil fields are left untouched.
type Update struct {
	Enabled   *bool           `json:"enabled,omitempty"`
	TestMode  *bool           `json:"testMode,omitempty"`
	Providers map[string]bool `json:"providers,omitempty"`
}

// Fields lists the top-level fields an update touches, for audit records.
func (u Update) Fields() []string {
	var out []string
	if u.Enabled != nil {
		out = append(out, "enabled")
	}
	if u.TestMode != nil {
		out = append(out, "testMode")
	}
	if len(u.Providers) > 0 {
		out = append(out, "providers")
	}
	return out
}

// MutateFunc computes the snapshot to store from the current one, which is
// nil when nothing has been saved yet. It may run more than once.
type MutateFunc func(cur *Snapshot) (*Snapshot, error)

// Store persists the capability snapshot. Load returns (nil, nil) when
// nothing has been saved yet. Mutate is a compare-and-set: fn's result is
// written only if nobody else wrote in between, otherwise fn is retried.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Mutate(ctx context.Context, fn MutateFunc) (*Snapshot, error)
}

type Registry struct {
	store     Store
	providers []string
	audit     *logging.Auditor
	log       *slog.Logger
	now       func() time.Time

	// last is only a fallback for when the store cannot be read.
	last atomic.Pointer[Snapshot]
}

func NewRegistry(store Store, providers []string, audit *logging.Auditor, log *slog.Logger) *Registry {
	known := append([]string(nil), providers...)
	sort.Strings(known)
	return &Registry{
		store:     store,
		providers: known,
		audit:     audit,
		log:       log,
		now:       time.Now,
	}
}

// Defaults is the first-boot state: everything on, test mode on.
func (r *Registry) Defaults() Snapshot {
	s := Snapshot{Enabled: true, TestMode: true, Providers: make(map[string]bool, len(r.providers)), UpdatedAt: r.now().UTC()}
	for _, p := range r.providers {
		s.Providers[p] = true
	}
	return s
}

// Get never fails. When the store is unreachable it serves the last snapshot
// it saw, or the defaults.
func (r *Registry) Get(ctx context.Context) Snapshot {
	s, err := r.load(ctx)
	if err != nil {
		r.log.WarnContext(ctx, "could not load payment capabilities", "err", err)
		if last := r.last.Load(); last != nil {
			return last.clone()
		}
		return r.Defaults()
	}
	return s
}

func (r *Registry) load(ctx context.Context) (Snapshot, error) {
	stored, err := r.store.Load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	s := r.normalize(stored)
	r.last.Store(&s)
	return s.clone(), nil
}

// normalize turns a stored value into a full snapshot.
func (r *Registry) normalize(stored *Snapshot) Snapshot {
	if stored == nil {
		return r.Defaults()
	}
	s := stored.clone()
	// Providers added to the build after the snapshot was saved start enabled.
	for _, p := range r.providers {
		if _, ok := s.Providers[p]; !ok {
			s.Providers[p] = true
		}
	}
	return s
}

// Update merges u into the stored snapshot. Unknown provider names are ignored.
func (r *Registry) Update(ctx context.Context, actor string, u Update) (Snapshot, error) {
	s, err := r.mutate(ctx, func(s *Snapshot) error {
		if u.Enabled != nil {
			s.Enabled = *u.Enabled
		}
		if u.TestMode != nil {
			s.TestMode = *u.TestMode
		}
		for name, on := range u.Providers {
			name = strings.ToLower(name)
			if _, known := s.Providers[name]; known {
				s.Providers[name] = on
			}
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	r.audit.Event(ctx, "payments.capabilities.update", actor, "changes", u.Fields())
	return s, nil
}

// ToggleProvider flips one provider's flag.
func (r *Registry) ToggleProvider(ctx context.Context, actor, name string) (Snapshot, error) {
	name = strings.ToLower(name)
	var next bool
	s, err := r.mutate(ctx, func(s *Snapshot) error {
		cur, known := s.Providers[name]
		if !known {
			return apperr.ErrUnknownProvider.With("provider", name)
		}
		next = !cur
		s.Providers[name] = next
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	r.audit.Event(ctx, "payments.provider.toggle", actor, "provider", name, "newState", next)
	return s, nil
}

// mutate applies change to the freshest stored snapshot under the store's
// compare-and-set.
func (r *Registry) mutate(ctx context.Context, change func(*Snapshot) error) (Snapshot, error) {
	saved, err := r.store.Mutate(ctx, func(stored *Snapshot) (*Snapshot, error) {
		s := r.normalize(stored)
		if err := change(&s); err != nil {
			return nil, err
		}
		s.UpdatedAt = r.now().UTC()
		return &s, nil
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return Snapshot{}, err
		}
		return Snapshot{}, apperr.Wrap(err, apperr.KindInternal, apperr.CodeInternal, "could not persist payment capabilities")
	}
	cp := saved.clone()
	r.last.Store(&cp)
	return saved.clone(), nil
}

// Check returns the policy error that blocks payments through provider, if any.
func Check(s Snapshot, provider string) error {
	if !s.Enabled {
		return apperr.ErrPaymentsDisabled
	}
	enabled, known := s.Providers[provider]
	if !known {
		return apperr.ErrUnknownProvider.With("provider", provider)
	}
	if !enabled {
		return apperr.ErrProviderDisabled.With("provider", provider)
	}
	return nil
}

// ErrCorrupt is returned by stores when the persisted value cannot be decoded.
var ErrCorrupt = errors.New("capabilities: stored value is corrupt")

func corrupt(err error) error {
	return fmt.Errorf("%w: %v", ErrCorrupt, err)
}
