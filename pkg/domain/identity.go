package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	dErrors "veritas/pkg/domain-errors"
)

// maxDIDLength bounds identifiers accepted at trust boundaries.
const maxDIDLength = 2048

// DID is a decentralized identifier naming an account, e.g. "did:plc:abc123".
// Invariant: values produced by ParseDID are non-empty, valid UTF-8 and free of
// whitespace and control characters. Equality is exact; no normalization is applied.
//
// Usage: construct via ParseDID at trust boundaries (HTTP params, token claims,
// config). Stores may cast rows they wrote themselves.
type DID string

// ParseDID validates external input as a DID of the form did:<method>:<id>.
//
// Errors: returns CodeInvalidInput for empty, oversized, malformed or
// non-printable input.
func ParseDID(s string) (DID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "did cannot be empty")
	}
	if len(s) > maxDIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "did too long")
	}
	if !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "did must be valid utf-8")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "did contains invalid characters")
		}
	}

	rest, ok := strings.CutPrefix(s, "did:")
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "did must start with did:")
	}
	method, id, ok := strings.Cut(rest, ":")
	if !ok || method == "" || id == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "did must be did:<method>:<id>")
	}
	for _, r := range method {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return "", dErrors.New(dErrors.CodeInvalidInput, "did method must be lowercase alphanumeric")
		}
	}
	return DID(s), nil
}

// String returns the string representation of the DID.
func (d DID) String() string {
	return string(d)
}

// IsNil reports whether the DID is empty, i.e. an anonymous viewer.
func (d DID) IsNil() bool {
	return d == ""
}
