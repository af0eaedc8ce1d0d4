package intercept

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/sessionkit/sessionkit-go/internal/authorize"
	"github.com/sessionkit/sessionkit-go/internal/session"
)

// fakeAuthority scripts the session surface the interceptor consumes.
type fakeAuthority struct {
	authenticated bool
	headers       [][2]string
	authorizeIDs  []string
	invalidations int
}

func (f *fakeAuthority) IsAuthenticated() bool { return f.authenticated }

func (f *fakeAuthority) Authorize(id string, emit authorize.EmitFunc) {
	f.authorizeIDs = append(f.authorizeIDs, id)
	for _, h := range f.headers {
		emit(h[0], h[1])
	}
}

func (f *fakeAuthority) Invalidate() {
	f.invalidations++
	f.authenticated = false
}

func bearerAuthority(token string) *fakeAuthority {
	return &fakeAuthority{
		authenticated: true,
		headers:       [][2]string{{"Authorization", "Bearer " + token}},
	}
}

func TestWrapOptions_MissingAuthorizerFailsFast(t *testing.T) {
	auth := bearerAuthority("abc123")
	ic := New(auth, "")

	prior := func(*http.Request) {}
	opts := &RequestOptions{URL: "http://example.test/", BeforeSend: prior}

	if err := ic.WrapOptions(opts); !errors.Is(err, ErrMissingAuthorizer) {
		t.Fatalf("err = %v, want ErrMissingAuthorizer", err)
	}
	if len(auth.authorizeIDs) != 0 {
		t.Fatal("authority was consulted despite missing config")
	}
	if opts.BeforeSend == nil {
		t.Fatal("pre-existing BeforeSend was removed")
	}
}

func TestHeaderMap_MissingAuthorizerFailsFast(t *testing.T) {
	auth := bearerAuthority("abc123")
	ic := New(auth, "   ")

	base := http.Header{"Accept": {"application/json"}}
	merged, err := ic.HeaderMap(base)
	if !errors.Is(err, ErrMissingAuthorizer) {
		t.Fatalf("err = %v, want ErrMissingAuthorizer", err)
	}
	if merged != nil {
		t.Fatalf("got headers %v despite missing config", merged)
	}
	if len(auth.authorizeIDs) != 0 {
		t.Fatal("authority was consulted despite missing config")
	}
}

func TestWrapOptions_InjectsBeforePriorHook(t *testing.T) {
	auth := bearerAuthority("abc123")
	ic := New(auth, "bearer")

	var order []string
	opts := &RequestOptions{
		URL: "http://example.test/",
		BeforeSend: func(req *http.Request) {
			// prior hook observes the injected header
			order = append(order, "prior:"+req.Header.Get("Authorization"))
		},
	}
	if err := ic.WrapOptions(opts); err != nil {
		t.Fatalf("WrapOptions: %v", err)
	}

	req, err := opts.NewRequest(context.Background())
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}

	if got := req.Header.Get("Authorization"); got != "Bearer abc123" {
		t.Fatalf("Authorization = %q", got)
	}
	if len(order) != 1 || order[0] != "prior:Bearer abc123" {
		t.Fatalf("prior hook ran %v, want once after injection", order)
	}
	if got := auth.authorizeIDs; len(got) != 1 || got[0] != "bearer" {
		t.Fatalf("authorize calls = %v", got)
	}
}

func TestWrapOptions_NoPriorHook(t *testing.T) {
	ic := New(bearerAuthority("abc123"), "bearer")
	opts := &RequestOptions{Method: http.MethodPost, URL: "http://example.test/items"}
	if err := ic.WrapOptions(opts); err != nil {
		t.Fatalf("WrapOptions: %v", err)
	}
	req, err := opts.NewRequest(context.Background())
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.Header.Get("Authorization") != "Bearer abc123" {
		t.Fatalf("header not injected: %v", req.Header)
	}
	if req.Method != http.MethodPost {
		t.Fatalf("method changed to %s", req.Method)
	}
}

func TestHeaderMap_MergesAndOverwrites(t *testing.T) {
	ic := New(bearerAuthority("abc123"), "bearer")

	base := http.Header{
		"Accept":        {"application/json"},
		"Authorization": {"Bearer stale"},
	}
	merged, err := ic.HeaderMap(base)
	if err != nil {
		t.Fatalf("HeaderMap: %v", err)
	}

	want := http.Header{
		"Accept":        {"application/json"},
		"Authorization": {"Bearer abc123"},
	}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("merged = %v, want %v", merged, want)
	}
	// base stays untouched
	if base.Get("Authorization") != "Bearer stale" {
		t.Fatalf("base was mutated: %v", base)
	}
}

func TestHeaderMap_NilBaseAndIdempotence(t *testing.T) {
	ic := New(bearerAuthority("abc123"), "bearer")

	first, err := ic.HeaderMap(nil)
	if err != nil {
		t.Fatalf("HeaderMap(nil): %v", err)
	}
	second, err := ic.HeaderMap(nil)
	if err != nil {
		t.Fatalf("HeaderMap(nil) again: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated calls diverged: %v vs %v", first, second)
	}
	if first.Get("Authorization") != "Bearer abc123" {
		t.Fatalf("merged = %v", first)
	}
}

func TestObserveResponse(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		authenticated bool
		want          int
	}{
		{"401 while authenticated", http.StatusUnauthorized, true, 1},
		{"401 while unauthenticated", http.StatusUnauthorized, false, 0},
		{"200 while authenticated", http.StatusOK, true, 0},
		{"404 while authenticated", http.StatusNotFound, true, 0},
		{"500 while authenticated", http.StatusInternalServerError, true, 0},
		{"500 while unauthenticated", http.StatusInternalServerError, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuthority{authenticated: tt.authenticated}
			New(auth, "bearer").ObserveResponse(tt.status)
			if auth.invalidations != tt.want {
				t.Fatalf("invalidations = %d, want %d", auth.invalidations, tt.want)
			}
		})
	}
}

func TestObserveResponse_Repeated401InvalidatesOnce(t *testing.T) {
	auth := bearerAuthority("abc123")
	ic := New(auth, "bearer")
	ic.ObserveResponse(http.StatusUnauthorized)
	ic.ObserveResponse(http.StatusUnauthorized)
	if auth.invalidations != 1 {
		t.Fatalf("invalidations = %d, want 1", auth.invalidations)
	}
}

func TestWrapHandler_InvalidatesThenDelegates(t *testing.T) {
	auth := bearerAuthority("abc123")
	ic := New(auth, "bearer")

	sentinel := errors.New("decode failed")
	var sawStatus int
	var sawBody string
	var invalidatedBeforeNext bool
	handler := ic.WrapHandler(func(status int, body []byte) error {
		sawStatus = status
		sawBody = string(body)
		invalidatedBeforeNext = auth.invalidations == 1
		return sentinel
	})

	err := handler(http.StatusUnauthorized, []byte(`{"error":"expired"}`))
	if !errors.Is(err, sentinel) {
		t.Fatalf("handler err = %v, want base handler's error", err)
	}
	if sawStatus != http.StatusUnauthorized || sawBody != `{"error":"expired"}` {
		t.Fatalf("base handler saw (%d, %q)", sawStatus, sawBody)
	}
	if !invalidatedBeforeNext {
		t.Fatal("invalidation did not happen before base handling")
	}
	if auth.invalidations != 1 {
		t.Fatalf("invalidations = %d, want 1", auth.invalidations)
	}
}

func TestWrapHandler_NilNext(t *testing.T) {
	ic := New(bearerAuthority("abc123"), "bearer")
	if err := ic.WrapHandler(nil)(http.StatusOK, nil); err != nil {
		t.Fatalf("nil next returned %v", err)
	}
}

// End-to-end against the real session and registry: the "token" scenario.
func TestHeaderMap_WithRealSession(t *testing.T) {
	sess, err := session.New(session.NewMemoryStore(), nil)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	if err := sess.Authenticate(authorize.Credentials{authorize.KeyAccessToken: "abc123"}); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	ic := New(sess, "bearer")
	merged, err := ic.HeaderMap(http.Header{"Accept": {"application/json"}})
	if err != nil {
		t.Fatalf("HeaderMap: %v", err)
	}

	want := http.Header{
		"Accept":        {"application/json"},
		"Authorization": {"Bearer abc123"},
	}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("merged = %v, want %v", merged, want)
	}

	// 401 flips the real session to unauthenticated
	ic.ObserveResponse(http.StatusUnauthorized)
	if sess.IsAuthenticated() {
		t.Fatal("session still authenticated after 401")
	}

	// headers are re-derived per request: none left after invalidation
	merged, err = ic.HeaderMap(nil)
	if err != nil {
		t.Fatalf("HeaderMap after invalidation: %v", err)
	}
	if got := merged.Get("Authorization"); got != "" {
		t.Fatalf("invalidated session still yields Authorization %q", got)
	}
}
