package httpwrap

// A Header represents the key-value pairs in an HTTP header.
// It is not an array of strings, so it won't work if you have multiple headers with the same key and order matters.
type Header map[string]string

func NewHeader() Header {
	return Header{}
}

func (h Header) WithBearerToken(token string) Header {
	h["Authorization"] = "Bearer " + token
	return h
}

// WithRestliProtocol marks a LinkedIn Rest.li 2.0 request.
func (h Header) WithRestliProtocol() Header {
	h["X-Restli-Protocol-Version"] = "2.0.0"
	return h
}
