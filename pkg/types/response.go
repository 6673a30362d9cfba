// Package types holds the wire envelopes shared by every storefront and
// admin endpoint. Success bodies wrap their payload under "data"; failures
// carry a code the clients branch on plus a human-readable message.
package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the body of every non-2xx response. Details is populated for
// validation and stock errors where the client can act on specifics.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
