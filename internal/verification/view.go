package verification

import (
	id "veritas/pkg/domain"
)

// View is the full state plus what a client needs to render it: the badge to
// show for the subject and whether the viewer may vouch for them.
type View struct {
	FullState
	Badge              Badge  `json:"badge"`
	CanIssue           bool   `json:"can_issue"`
	IssueBlockedReason string `json:"issue_blocked_reason,omitempty"`
}

// NewView derives the client view from a composed state.
func NewView(full FullState, subject *Profile, viewerDID id.DID) View {
	v := View{
		FullState: full,
		Badge:     BadgeFor(full.Subject.SimpleState),
	}
	if err := CanIssue(full, subject, viewerDID); err != nil {
		v.IssueBlockedReason = err.Error()
	} else {
		v.CanIssue = true
	}
	return v
}
