package authorize

import "sync"

// Credentials is the credential material held by a session. The keys are
// strategy-specific (e.g. "access_token" for bearer); nothing outside the
// authorizer that consumes them interprets the values.
type Credentials map[string]string

// Well-known credential keys consumed by the built-in authorizers.
const (
	KeyAccessToken = "access_token"
	KeyUsername    = "username"
	KeyPassword    = "password"
	KeyAPIKey      = "api_key"
)

// EmitFunc receives one header produced during authorization. An authorizer
// may call it zero or more times; every call must happen before Authorize
// returns.
type EmitFunc func(name, value string)

// Authorizer derives authorization headers for one outgoing request from
// the session's current credentials.
type Authorizer interface {
	Authorize(creds Credentials, emit EmitFunc)
}

// AuthorizerFunc adapts a function into an Authorizer.
type AuthorizerFunc func(creds Credentials, emit EmitFunc)

func (f AuthorizerFunc) Authorize(creds Credentials, emit EmitFunc) { f(creds, emit) }

// Registry resolves authorizer ids to strategies. Registering an id twice
// overwrites the earlier entry.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]Authorizer
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Authorizer)}
}

func (r *Registry) Register(id string, a Authorizer) {
	r.mu.Lock()
	r.byID[id] = a
	r.mu.Unlock()
}

func (r *Registry) Lookup(id string) (Authorizer, bool) {
	r.mu.RLock()
	a, ok := r.byID[id]
	r.mu.RUnlock()
	return a, ok
}

// Default returns a registry with all built-in strategies registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register("bearer", Bearer{})
	r.Register("basic", Basic{})
	r.Register("jwt", JWT{})
	r.Register("apikey", APIKey{})
	return r
}
