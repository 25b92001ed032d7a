package verification

import (
	id "veritas/pkg/domain"
)

// Composer relates a subject to the viewer by resolving both independently.
type Composer struct {
	resolver *Resolver
}

// NewComposer returns a composer using resolver for both profiles.
// A nil resolver behaves like one with no privileged identities.
func NewComposer(resolver *Resolver) *Composer {
	if resolver == nil {
		resolver = NewResolver()
	}
	return &Composer{resolver: resolver}
}

// Resolver exposes the resolver shared by both sides of the composition.
func (c *Composer) Resolver() *Resolver {
	return c.resolver
}

// Compose builds the full state for subject as seen by the viewer.
// viewer may be nil (anonymous viewer or profile not loaded); viewerDID may be
// empty. The same preferences apply to both resolutions.
//
//   - WasVerified: subject is default and unverified yet has history.
//   - HasIssuedVerification: viewer is a verifier, subject is default, and
//     one of the subject's records was issued by viewerDID.
//   - IsViewer: subject DID equals a non-empty viewerDID.
func (c *Composer) Compose(subject, viewer *Profile, viewerDID id.DID, prefs *Preferences) FullState {
	subjectState := c.resolver.Resolve(subject, prefs)
	viewerState := c.resolver.Resolve(viewer, prefs)
	records := subject.records()

	wasVerified := subjectState.Role == RoleDefault &&
		!subjectState.IsVerified &&
		len(records) > 0

	isViewer := subject != nil && !viewerDID.IsNil() && subject.DID == viewerDID

	out := FullState{
		Subject: SubjectState{
			SimpleState: subjectState,
			WasVerified: wasVerified,
			IsViewer:    isViewer,
		},
		Viewer: ViewerState{
			Role:       viewerState.Role,
			IsVerified: viewerState.IsVerified,
		},
	}

	if viewerState.Role == RoleVerifier {
		hasIssued := subjectState.Role == RoleDefault && issuedBy(records, viewerDID)
		out.Viewer.HasIssuedVerification = &hasIssued
	}
	return out
}

func issuedBy(records []Record, issuer id.DID) bool {
	if issuer.IsNil() {
		return false
	}
	for _, r := range records {
		if r.Issuer == issuer {
			return true
		}
	}
	return false
}
