package verification

import (
	id "veritas/pkg/domain"
)

var unverifiedState = SimpleState{Role: RoleDefault}

var founderState = SimpleState{Role: RoleFounder, IsVerified: true, ShowBadge: true}

// Resolver classifies a single profile. The privileged identities are
// configuration; they always resolve to the founder role.
// The zero value has no privileged identities and is ready to use.
type Resolver struct {
	privileged map[id.DID]struct{}
}

// NewResolver builds a resolver recognizing the given privileged identities.
// Empty DIDs are ignored so an unset config value can never match.
func NewResolver(privileged ...id.DID) *Resolver {
	set := make(map[id.DID]struct{}, len(privileged))
	for _, did := range privileged {
		if did.IsNil() {
			continue
		}
		set[did] = struct{}{}
	}
	return &Resolver{privileged: set}
}

// IsPrivileged reports whether did is configured as a founder identity.
// Matching is exact.
func (r *Resolver) IsPrivileged(did id.DID) bool {
	if r == nil || did.IsNil() {
		return false
	}
	_, ok := r.privileged[did]
	return ok
}

// Resolve classifies profile. Rule order (first match wins):
//  1. No profile or no verification block: default, unverified, no badge.
//  2. Privileged identity: founder, verified, badge shown. Preferences are
//     not consulted.
//  3. Otherwise two axes are read independently. A status of valid or invalid
//     puts the profile on the axis; only valid makes it verified. Being on the
//     trusted-verifier axis makes the role verifier. The badge follows
//     IsVerified unless the viewer hides badges.
//
// Absent or partial input degrades to rule 1's state; Resolve never fails.
func (r *Resolver) Resolve(profile *Profile, prefs *Preferences) SimpleState {
	if profile == nil || profile.Verification == nil {
		return unverifiedState
	}

	if r.IsPrivileged(profile.DID) {
		return founderState
	}

	data := profile.Verification
	verifiedAxis := data.VerifiedStatus.onAxis()
	verifierAxis := data.TrustedVerifierStatus.onAxis()
	isVerified := (verifiedAxis && data.VerifiedStatus == StatusValid) ||
		(verifierAxis && data.TrustedVerifierStatus == StatusValid)

	role := RoleDefault
	if verifierAxis {
		role = RoleVerifier
	}

	return SimpleState{
		Role:       role,
		IsVerified: isVerified,
		ShowBadge:  isVerified && !prefs.hideBadges(),
	}
}
