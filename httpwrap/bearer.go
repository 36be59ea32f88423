package httpwrap

import "net/http"

// BearerTransport is a RoundTripper that presents an OAuth 2.0 access token
// on every request.
type BearerTransport struct {
	Transport http.RoundTripper
	Token     string
}

// RoundTrip executes a single HTTP transaction and adds the Bearer Token.
func (b *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", "Bearer "+b.Token)

	transport := b.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return transport.RoundTrip(reqClone)
}
