// Package intercept augments outgoing requests with authorization headers
// produced by the session's configured authorizer, and watches responses for
// authentication failure. It owns neither transport nor token formats: the
// host adapter decides when hooks run, the session decides what headers mean.
package intercept

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sessionkit/sessionkit-go/internal/authorize"
)

// ErrMissingAuthorizer is returned when an Interceptor is used without an
// authorizer id. Requests must never silently go out unauthenticated, so
// every integration shape fails loudly before doing any work.
var ErrMissingAuthorizer = errors.New(`intercept: no authorizer id configured, set Interceptor.Authorizer (config key "authorizer")`)

// Authority is the session surface the interceptor consumes.
type Authority interface {
	IsAuthenticated() bool
	Authorize(authorizerID string, emit authorize.EmitFunc)
	Invalidate()
}

// RequestOptions is the mutable request carrier used by hosts that expose a
// single pre-send callback slot. The interceptor only ever adds headers; all
// other fields pass through untouched.
type RequestOptions struct {
	Method string
	URL    string
	Body   io.Reader
	Header http.Header

	// BeforeSend runs with the materialized request just before
	// transmission. Hosts may have installed one already; WrapOptions
	// chains it instead of replacing it.
	BeforeSend func(*http.Request)
}

// NewRequest materializes the options into an *http.Request and runs the
// BeforeSend hook. This is the point a host adapter hands the request to its
// transport.
func (o *RequestOptions) NewRequest(ctx context.Context) (*http.Request, error) {
	method := o.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, o.URL, o.Body)
	if err != nil {
		return nil, err
	}
	for name, values := range o.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if o.BeforeSend != nil {
		o.BeforeSend(req)
	}
	return req, nil
}

// ResponseHandler is the host adapter's response processing, invoked once
// per received response.
type ResponseHandler func(status int, body []byte) error

// Interceptor wires a session authority into a host adapter's request and
// response hooks. It is stateless per request; one instance serves any
// number of in-flight requests.
type Interceptor struct {
	// Authorizer names the strategy the session resolves on each request.
	// Required.
	Authorizer string
	Session    Authority
}

func New(session Authority, authorizerID string) *Interceptor {
	return &Interceptor{Authorizer: authorizerID, Session: session}
}

func (i *Interceptor) checkConfig() error {
	if strings.TrimSpace(i.Authorizer) == "" {
		return ErrMissingAuthorizer
	}
	return nil
}

// WrapOptions installs authorization header injection on opts, chaining any
// BeforeSend the host already set. Injection runs first, so an existing hook
// observes the injected headers but cannot be stomped by them.
func (i *Interceptor) WrapOptions(opts *RequestOptions) error {
	if err := i.checkConfig(); err != nil {
		return err
	}
	prior := opts.BeforeSend
	opts.BeforeSend = func(req *http.Request) {
		i.Session.Authorize(i.Authorizer, func(name, value string) {
			req.Header.Set(name, value)
		})
		if prior != nil {
			prior(req)
		}
	}
	return nil
}

// HeaderMap returns base merged with the headers the authorizer emits for
// the current session state. Authorizer output wins key collisions. base is
// never mutated; a nil base is treated as empty.
func (i *Interceptor) HeaderMap(base http.Header) (http.Header, error) {
	if err := i.checkConfig(); err != nil {
		return nil, err
	}
	merged := make(http.Header, len(base)+1)
	for name, values := range base {
		merged[name] = append([]string(nil), values...)
	}
	i.Session.Authorize(i.Authorizer, func(name, value string) {
		merged.Set(name, value)
	})
	return merged, nil
}

// ObserveResponse inspects one response status. A 401 against an
// authenticated session invalidates it; everything else is ignored. At most
// one invalidation per response, and a 401 while already unauthenticated
// stays a no-op.
func (i *Interceptor) ObserveResponse(status int) {
	if status == http.StatusUnauthorized && i.Session.IsAuthenticated() {
		i.Session.Invalidate()
	}
}

// WrapHandler returns a ResponseHandler that observes the status before
// delegating to next. next's return value passes through unchanged.
func (i *Interceptor) WrapHandler(next ResponseHandler) ResponseHandler {
	return func(status int, body []byte) error {
		i.ObserveResponse(status)
		if next == nil {
			return nil
		}
		return next(status, body)
	}
}
