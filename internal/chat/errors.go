package chat

import "fmt"

// ErrorKind classifies a failed Telegram API call. Every error leaving this
// package carries exactly one of these, so callers never inspect the raw
// tgbotapi or net errors themselves.
type ErrorKind int

const (
	// ErrRejected means Telegram refused the request (4xx class).
	ErrRejected ErrorKind = iota
	// ErrServer means Telegram itself failed (5xx class).
	ErrServer
	// ErrTransport means the request never got a proper response (network).
	ErrTransport
)

func (k ErrorKind) String() string {
	switch k {
	case ErrRejected:
		return "rejected"
	case ErrServer:
		return "server_fault"
	case ErrTransport:
		return "transport_fault"
	default:
		return "unknown"
	}
}

// ClientError wraps an underlying Telegram failure with its category
type ClientError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Op, e.Kind, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}
