package authorize

// Bearer emits "Authorization: Bearer <token>" from the access_token
// credential. An absent or empty token emits nothing; the request goes out
// unauthenticated and the server's 401 drives invalidation instead.
type Bearer struct{}

func (Bearer) Authorize(creds Credentials, emit EmitFunc) {
	tok := creds[KeyAccessToken]
	if tok == "" {
		return
	}
	emit("Authorization", "Bearer "+tok)
}
