package utilities

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/segmentio/ksuid"
)

// ErrMalformedID reports a token that cannot be decoded back to an internal
// identifier.
var ErrMalformedID = errors.New("malformed identifier")

// EncodeID renders an internal identifier as a URL-safe opaque token. Raw
// storage identifiers never cross the request boundary verbatim; this is a
// transport encoding, not a cryptographic one.
func EncodeID(id string) string {
	return base64.URLEncoding.EncodeToString([]byte(id))
}

// DecodeID is the inverse of EncodeID. It fails with ErrMalformedID when the
// token is not valid base64 or the decoded text is not a KSUID.
func DecodeID(token string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedID, err)
	}
	if _, err := ksuid.Parse(string(raw)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedID, err)
	}
	return string(raw), nil
}
