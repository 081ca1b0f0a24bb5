package common

import "time"

const (
	// MaxRequestBody limits JSON request bodies.
	MaxRequestBody = 1 << 20
	// RequestTimeout bounds the storage work of one request.
	RequestTimeout = 5 * time.Second
)
