package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	id "veritas/pkg/domain"
)

func TestCanIssue(t *testing.T) {
	c := NewComposer(NewResolver(founderDID))
	verifier := profileWith(verifierDID, StatusUnverified, StatusValid)

	check := func(subject, viewer *Profile, viewerDID id.DID) error {
		return CanIssue(c.Compose(subject, viewer, viewerDID, nil), subject, viewerDID)
	}

	t.Run("eligible", func(t *testing.T) {
		subject := profileWith(subjectDID, StatusUnverified, StatusUnverified)
		assert.NoError(t, check(subject, verifier, verifierDID))
	})

	t.Run("viewer not a verifier", func(t *testing.T) {
		subject := profileWith(subjectDID, StatusUnverified, StatusUnverified)
		viewer := profileWith(otherDID, StatusValid, StatusUnverified)
		assert.ErrorIs(t, check(subject, viewer, otherDID), ErrNotVerifier)
		assert.ErrorIs(t, check(subject, nil, ""), ErrNotVerifier)
	})

	t.Run("self verification", func(t *testing.T) {
		assert.ErrorIs(t, check(verifier, verifier, verifierDID), ErrSelfVerification)
	})

	t.Run("founder subject", func(t *testing.T) {
		founder := profileWith(founderDID, "", "")
		assert.ErrorIs(t, check(founder, verifier, verifierDID), ErrFounderSubject)
	})

	t.Run("already issued even to a verifier subject", func(t *testing.T) {
		subject := profileWith(subjectDID, StatusUnverified, StatusValid,
			Record{Issuer: verifierDID, Status: StatusValid})
		assert.ErrorIs(t, check(subject, verifier, verifierDID), ErrAlreadyIssued)
	})

	t.Run("missing display name", func(t *testing.T) {
		subject := profileWith(subjectDID, StatusUnverified, StatusUnverified)
		subject.DisplayName = "   "
		assert.ErrorIs(t, check(subject, verifier, verifierDID), ErrMissingDisplayName)
	})
}

func TestIssuedBy(t *testing.T) {
	records := []Record{
		{Issuer: verifierDID, Status: StatusValid},
		{Issuer: otherDID, Status: StatusValid},
		{Issuer: verifierDID, Status: StatusInvalid},
	}
	subject := profileWith(subjectDID, StatusValid, StatusUnverified, records...)

	got := IssuedBy(subject, verifierDID)
	assert.Equal(t, []Record{records[0], records[2]}, got)

	got[0].Status = StatusUnverified
	assert.Equal(t, StatusValid, subject.Verification.Records[0].Status, "result must not alias input")

	assert.Nil(t, IssuedBy(subject, ""))
	assert.Nil(t, IssuedBy(nil, verifierDID))
	assert.Nil(t, IssuedBy(&Profile{DID: subjectDID}, verifierDID))
}
