package session

import (
	"time"

	"github.com/sessionkit/sessionkit-go/internal/authorize"
)

// State is the persisted form of a session.
type State struct {
	ID            string                `json:"id"`
	Authenticated bool                  `json:"authenticated"`
	Credentials   authorize.Credentials `json:"credentials,omitempty"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func (s *State) clone() *State {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Credentials != nil {
		cp.Credentials = make(authorize.Credentials, len(s.Credentials))
		for k, v := range s.Credentials {
			cp.Credentials[k] = v
		}
	}
	return &cp
}

// Store persists session state across process restarts.
type Store interface {
	// Load returns the stored state, or (nil, nil) when nothing is stored.
	Load() (*State, error)
	Save(st *State) error
	Clear() error
}
