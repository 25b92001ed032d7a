// Package verification derives the trust classification shown next to a
// profile: its role (default, verifier or founder), whether it counts as
// verified, and whether a badge is displayed. It also relates a subject
// profile to the current viewer.
//
// Everything in this package is pure: no I/O, no shared mutable state, and
// inputs are never modified. Callers own fetching and any memoization.
package verification

import (
	id "veritas/pkg/domain"
)

// Status is the validity of a verification as reported upstream.
type Status string

const (
	StatusValid      Status = "valid"
	StatusInvalid    Status = "invalid"
	StatusUnverified Status = "unverified"
)

// onAxis reports whether the status places a profile on a classification
// axis. Both valid and invalid count; only valid counts towards IsVerified.
func (s Status) onAxis() bool {
	return s == StatusValid || s == StatusInvalid
}

// IsKnown reports whether s is one of the recognized statuses.
func (s Status) IsKnown() bool {
	return s == StatusValid || s == StatusInvalid || s == StatusUnverified
}

// Role is a profile's trust tier.
type Role string

const (
	RoleDefault  Role = "default"
	RoleVerifier Role = "verifier"
	RoleFounder  Role = "founder"
)

// Record is a single vouch from an issuer toward a profile.
type Record struct {
	Issuer id.DID `json:"issuer"`
	Status Status `json:"status"`
}

// Data is the verification block attached to a profile.
type Data struct {
	Records               []Record `json:"records"`
	VerifiedStatus        Status   `json:"verified_status"`
	TrustedVerifierStatus Status   `json:"trusted_verifier_status"`
}

// Profile is the slice of an account profile this package reads.
// A nil Verification means the upstream returned no verification block.
type Profile struct {
	DID          id.DID `json:"did"`
	Handle       string `json:"handle"`
	DisplayName  string `json:"display_name"`
	Verification *Data  `json:"verification,omitempty"`
}

// records returns the subject's verification history; nil-safe.
func (p *Profile) records() []Record {
	if p == nil || p.Verification == nil {
		return nil
	}
	return p.Verification.Records
}

// Preferences are the viewer's verification display preferences.
// Version increments on every change and keys caller-side memoization.
type Preferences struct {
	HideBadges bool  `json:"hide_badges"`
	Version    int64 `json:"version"`
}

func (p *Preferences) hideBadges() bool {
	return p != nil && p.HideBadges
}

// SimpleState is the classification of a single profile.
type SimpleState struct {
	Role       Role `json:"role"`
	IsVerified bool `json:"is_verified"`
	ShowBadge  bool `json:"show_badge"`
}

// SubjectState is the subject's classification as seen by a viewer.
type SubjectState struct {
	SimpleState
	WasVerified bool `json:"was_verified"`
	IsViewer    bool `json:"is_viewer"`
}

// ViewerState is the viewer's own classification. HasIssuedVerification is
// set only when Role is RoleVerifier; for other roles the field is absent.
type ViewerState struct {
	Role                  Role  `json:"role"`
	IsVerified            bool  `json:"is_verified"`
	HasIssuedVerification *bool `json:"has_issued_verification,omitempty"`
}

// IssuedVerification reports the verifier-only flag, false when absent.
func (v ViewerState) IssuedVerification() bool {
	return v.HasIssuedVerification != nil && *v.HasIssuedVerification
}

// FullState relates a subject profile to the current viewer.
type FullState struct {
	Subject SubjectState `json:"subject"`
	Viewer  ViewerState  `json:"viewer"`
}
