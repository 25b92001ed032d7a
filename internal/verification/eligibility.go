package verification

import (
	"errors"
	"strings"

	id "veritas/pkg/domain"
)

// Reasons a viewer may not vouch for a subject.
var (
	ErrNotVerifier        = errors.New("viewer is not a trusted verifier")
	ErrSelfVerification   = errors.New("viewer cannot verify their own profile")
	ErrFounderSubject     = errors.New("founder profiles cannot be verified")
	ErrAlreadyIssued      = errors.New("viewer has already verified this profile")
	ErrMissingDisplayName = errors.New("profile has no display name")
)

// CanIssue reports whether the viewer described by full may create a new
// verification for subject. It answers the question only; issuing is done
// elsewhere. Checks run in order and the first failure is returned.
func CanIssue(full FullState, subject *Profile, viewerDID id.DID) error {
	if full.Viewer.Role != RoleVerifier {
		return ErrNotVerifier
	}
	if full.Subject.IsViewer {
		return ErrSelfVerification
	}
	if full.Subject.Role == RoleFounder {
		return ErrFounderSubject
	}
	if issuedBy(subject.records(), viewerDID) {
		return ErrAlreadyIssued
	}
	if subject == nil || strings.TrimSpace(subject.DisplayName) == "" {
		return ErrMissingDisplayName
	}
	return nil
}

// IssuedBy returns the records on subject authored by issuer, in history
// order. The result never aliases the subject's slice.
func IssuedBy(subject *Profile, issuer id.DID) []Record {
	if issuer.IsNil() {
		return nil
	}
	var out []Record
	for _, r := range subject.records() {
		if r.Issuer == issuer {
			out = append(out, r)
		}
	}
	return out
}
