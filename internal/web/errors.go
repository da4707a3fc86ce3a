package web

import "net/http"

// Kind classifies a service failure. The transport layer owns the mapping
// from kinds to HTTP status codes so it is not duplicated per handler.
type Kind int

const (
	KindBadRequest Kind = iota
	KindAuthFailed
	KindNotFound
	KindConflict
	KindInternal
)

// Error is the result type service operations return on failure.
type Error struct {
	Kind Kind
	Msg  string
	// Extra fields are merged into the response envelope, e.g. the
	// missingParameters list on a missing-fields rejection.
	Extra map[string]any
}

func (e *Error) Error() string { return e.Msg }

func BadRequest(msg string) *Error { return &Error{Kind: KindBadRequest, Msg: msg} }

func BadRequestWith(msg string, extra map[string]any) *Error {
	return &Error{Kind: KindBadRequest, Msg: msg, Extra: extra}
}

func AuthFailed(msg string) *Error { return &Error{Kind: KindAuthFailed, Msg: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Msg: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Msg: msg} }

func statusFor(k Kind) int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindAuthFailed:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
