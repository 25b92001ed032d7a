package verification

// Badge is the indicator a client should render next to a profile.
type Badge string

const (
	BadgeNone     Badge = "none"
	BadgeVerified Badge = "verified"
	BadgeVerifier Badge = "verifier"
	BadgeFounder  Badge = "founder"
)

// BadgeFor picks the badge for a resolved state. Founder takes precedence,
// then verifier; a hidden badge is always BadgeNone.
func BadgeFor(s SimpleState) Badge {
	if !s.ShowBadge {
		return BadgeNone
	}
	switch s.Role {
	case RoleFounder:
		return BadgeFounder
	case RoleVerifier:
		return BadgeVerifier
	default:
		return BadgeVerified
	}
}
