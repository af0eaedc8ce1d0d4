package intercept

import "net/http"

// Transport packages the header-map shape and the response hook as an
// http.RoundTripper for net/http hosts. A nil base means
// http.DefaultTransport.
func (i *Interceptor) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{interceptor: i, base: base}
}

type authTransport struct {
	interceptor *Interceptor
	base        http.RoundTripper
}

// RoundTrip clones the request with merged authorization headers, sends it,
// and feeds the response status through the interceptor. The caller's
// request is never mutated, per the RoundTripper contract.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	merged, err := t.interceptor.HeaderMap(req.Header)
	if err != nil {
		return nil, err
	}
	clone := req.Clone(req.Context())
	clone.Header = merged

	resp, err := t.base.RoundTrip(clone)
	if err != nil {
		return nil, err
	}
	t.interceptor.ObserveResponse(resp.StatusCode)
	return resp, nil
}
