package authorize

import "encoding/base64"

// Basic emits an RFC 7617 Basic authorization header from the username and
// password credentials. A missing username emits nothing; an empty password
// with a present username is allowed.
type Basic struct{}

func (Basic) Authorize(creds Credentials, emit EmitFunc) {
	user := creds[KeyUsername]
	if user == "" {
		return
	}
	raw := user + ":" + creds[KeyPassword]
	emit("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(raw)))
}
