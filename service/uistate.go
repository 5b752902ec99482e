package service

import (
	"sync"
)

// UIState tracks what a session is looking at: the active tab, the open
// modal and the entity being edited. It coordinates the dashboard, it does
// not gate anything; closing a modal is the only cancellation in the system
// and simply discards the editing target.
type UIState struct {
	ActiveTab     string `json:"active_tab"`
	ActiveModal   string `json:"active_modal,omitempty"`
	EditingTarget string `json:"editing_target,omitempty"`
}

// Modal names that carry an editing target.
const (
	ModalEditAgreement = "edit-agreement"
	ModalEditAddendum  = "edit-addendum"
)

// UIStateService keeps one UIState per username.
type UIStateService struct {
	mu     sync.RWMutex
	store  *Store
	states map[string]*UIState
}

// NewUIStateService creates the per-session UI state tracker.
func NewUIStateService(store *Store) *UIStateService {
	return &UIStateService{
		store:  store,
		states: make(map[string]*UIState),
	}
}

// Get returns the session's UI state, defaulting to the agreements tab.
func (s *UIStateService) Get(username string) UIState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.states[username]; ok {
		return *st
	}
	return UIState{ActiveTab: "agreements"}
}

// SetActiveTab switches the session's active tab.
func (s *UIStateService) SetActiveTab(username, tab string) UIState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(username)
	st.ActiveTab = tab
	return *st
}

// OpenModal opens a modal. Edit modals name the entity being edited; the
// target must exist or the open is rejected.
func (s *UIStateService) OpenModal(username, modal, targetID string) (UIState, error) {
	switch modal {
	case ModalEditAgreement:
		if _, err := s.store.GetAgreement(targetID); err != nil {
			return UIState{}, err
		}
	case ModalEditAddendum:
		if _, err := s.store.GetAddendum(targetID); err != nil {
			return UIState{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(username)
	st.ActiveModal = modal
	st.EditingTarget = targetID
	return *st, nil
}

// CloseModal dismisses the open modal and discards the editing target.
func (s *UIStateService) CloseModal(username string) UIState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(username)
	st.ActiveModal = ""
	st.EditingTarget = ""
	return *st
}

// state returns the mutable state for username. Caller holds the lock.
func (s *UIStateService) state(username string) *UIState {
	st, ok := s.states[username]
	if !ok {
		st = &UIState{ActiveTab: "agreements"}
		s.states[username] = st
	}
	return st
}
