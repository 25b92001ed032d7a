package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and caches return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: no profile, preferences or cached state under the key
//   - ErrUnavailable: backing store temporarily unreachable
//   - ErrInvalidState: stored data could not be decoded into a domain value
var (
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidState = errors.New("invalid state")
)
