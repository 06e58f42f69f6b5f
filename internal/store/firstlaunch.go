package store

import (
	"context"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
)

type firstLaunchState struct {
	IsFirstLaunch bool `json:"isFirstLaunch"`
}

// FirstLaunchStore tracks whether onboarding has been completed.
type FirstLaunchStore struct {
	base
	state firstLaunchState
}

// NewFirstLaunchStore creates a store reporting a first launch.
func NewFirstLaunchStore(deps Deps) *FirstLaunchStore {
	s := &FirstLaunchStore{state: firstLaunchState{IsFirstLaunch: true}}
	s.init(KeyFirstLaunch, events.FirstLaunchUpdated, deps)
	return s
}

// Load rehydrates the flag.
func (s *FirstLaunchStore) Load(ctx context.Context) error {
	st := firstLaunchState{IsFirstLaunch: true}
	ok, err := s.read(ctx, &st)
	if err != nil || !ok {
		return err
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

// IsFirstLaunch reports whether onboarding is still pending.
func (s *FirstLaunchStore) IsFirstLaunch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsFirstLaunch
}

// Complete marks onboarding as done.
func (s *FirstLaunchStore) Complete(ctx context.Context) error {
	s.mu.Lock()
	s.state.IsFirstLaunch = false
	p := s.stage(s.state)
	s.mu.Unlock()
	return s.commit(ctx, p, events.FirstLaunchUpdatedEvent{IsFirstLaunch: false})
}
