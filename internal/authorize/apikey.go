package authorize

// APIKey emits the api_key credential under a configurable header name.
type APIKey struct {
	// Header overrides the header name; empty means "X-Api-Key".
	Header string
}

func (a APIKey) Authorize(creds Credentials, emit EmitFunc) {
	key := creds[KeyAPIKey]
	if key == "" {
		return
	}
	name := a.Header
	if name == "" {
		name = "X-Api-Key"
	}
	emit(name, key)
}
