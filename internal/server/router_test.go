package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRouter_AuthMatrix(t *testing.T) {
	srv := httptest.NewServer(BuildRouter(Options{Token: "demo-token"}))
	defer srv.Close()

	tests := []struct {
		name   string
		path   string
		authz  string
		status int
	}{
		{"healthz is open", "/healthz", "", http.StatusOK},
		{"version is open", "/version", "", http.StatusOK},
		{"public 401s anonymously", "/public", "", http.StatusUnauthorized},
		{"protected without token", "/protected", "", http.StatusUnauthorized},
		{"protected with wrong token", "/protected", "Bearer nope", http.StatusUnauthorized},
		{"protected with wrong scheme", "/protected", "Basic ZGVtbw==", http.StatusUnauthorized},
		{"protected with token", "/protected", "Bearer demo-token", http.StatusOK},
		{"whoami with token", "/whoami", "Bearer demo-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+tt.path, nil)
			if tt.authz != "" {
				req.Header.Set("Authorization", tt.authz)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("GET %s: %v", tt.path, err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.status)
			}
			if tt.status == http.StatusUnauthorized && resp.Header.Get("WWW-Authenticate") == "" {
				t.Error("401 without WWW-Authenticate challenge")
			}
		})
	}
}
