package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "veritas/pkg/domain"
)

const (
	subjectDID  = id.DID("did:plc:subject")
	verifierDID = id.DID("did:plc:verifier")
	otherDID    = id.DID("did:plc:other")
)

func TestCompose(t *testing.T) {
	c := NewComposer(NewResolver(founderDID))
	verifier := profileWith(verifierDID, StatusUnverified, StatusValid)
	revoked := profileWith(subjectDID, StatusUnverified, StatusUnverified,
		Record{Issuer: verifierDID, Status: StatusInvalid})

	t.Run("revoked subject seen by a different verifier", func(t *testing.T) {
		other := profileWith(otherDID, StatusUnverified, StatusValid)
		got := c.Compose(revoked, other, otherDID, nil)

		assert.True(t, got.Subject.WasVerified)
		assert.False(t, got.Subject.IsVerified)
		assert.Equal(t, RoleVerifier, got.Viewer.Role)
		require.NotNil(t, got.Viewer.HasIssuedVerification)
		assert.False(t, *got.Viewer.HasIssuedVerification)
	})

	t.Run("revoked subject seen by the original issuer", func(t *testing.T) {
		got := c.Compose(revoked, verifier, verifierDID, nil)

		assert.True(t, got.Subject.WasVerified)
		require.NotNil(t, got.Viewer.HasIssuedVerification)
		assert.True(t, *got.Viewer.HasIssuedVerification)
		assert.True(t, got.Viewer.IssuedVerification())
	})

	t.Run("issuer match requires default subject", func(t *testing.T) {
		subject := profileWith(subjectDID, StatusUnverified, StatusValid,
			Record{Issuer: verifierDID, Status: StatusValid})
		got := c.Compose(subject, verifier, verifierDID, nil)

		assert.Equal(t, RoleVerifier, got.Subject.Role)
		require.NotNil(t, got.Viewer.HasIssuedVerification)
		assert.False(t, *got.Viewer.HasIssuedVerification)
	})

	t.Run("non-verifier viewer omits issued flag", func(t *testing.T) {
		viewer := profileWith(otherDID, StatusValid, StatusUnverified)
		got := c.Compose(revoked, viewer, otherDID, nil)

		assert.Equal(t, ViewerState{Role: RoleDefault, IsVerified: true}, got.Viewer)
		assert.Nil(t, got.Viewer.HasIssuedVerification)
	})

	t.Run("founder viewer omits issued flag", func(t *testing.T) {
		founder := profileWith(founderDID, "", "")
		got := c.Compose(revoked, founder, founderDID, nil)

		assert.Equal(t, ViewerState{Role: RoleFounder, IsVerified: true}, got.Viewer)
	})

	t.Run("anonymous viewer", func(t *testing.T) {
		got := c.Compose(revoked, nil, "", nil)

		assert.Equal(t, ViewerState{Role: RoleDefault}, got.Viewer)
		assert.False(t, got.Subject.IsViewer)
	})

	t.Run("viewer looking at themself", func(t *testing.T) {
		got := c.Compose(verifier, verifier, verifierDID, nil)

		assert.True(t, got.Subject.IsViewer)
		assert.Equal(t, RoleVerifier, got.Subject.Role)
	})

	t.Run("viewer identity known but profile not loaded", func(t *testing.T) {
		got := c.Compose(revoked, nil, verifierDID, nil)

		assert.Equal(t, RoleDefault, got.Viewer.Role)
		assert.Nil(t, got.Viewer.HasIssuedVerification)
		assert.False(t, got.Subject.IsViewer)
	})

	t.Run("currently verified subject was not merely verified", func(t *testing.T) {
		subject := profileWith(subjectDID, StatusValid, StatusUnverified,
			Record{Issuer: verifierDID, Status: StatusValid})
		got := c.Compose(subject, nil, "", nil)

		assert.True(t, got.Subject.IsVerified)
		assert.False(t, got.Subject.WasVerified)
	})

	t.Run("subject without verification block", func(t *testing.T) {
		got := c.Compose(&Profile{DID: subjectDID}, verifier, verifierDID, nil)

		assert.Equal(t, SimpleState{Role: RoleDefault}, got.Subject.SimpleState)
		assert.False(t, got.Subject.WasVerified)
		assert.False(t, got.Viewer.IssuedVerification())
	})

	t.Run("nil subject degrades to default", func(t *testing.T) {
		got := c.Compose(nil, verifier, verifierDID, nil)

		assert.Equal(t, SubjectState{SimpleState: SimpleState{Role: RoleDefault}}, got.Subject)
	})

	t.Run("hide badges applies to subject", func(t *testing.T) {
		subject := profileWith(subjectDID, StatusValid, StatusUnverified)
		got := c.Compose(subject, verifier, verifierDID, &Preferences{HideBadges: true})

		assert.True(t, got.Subject.IsVerified)
		assert.False(t, got.Subject.ShowBadge)
	})
}

func TestCompose_DoesNotMutateInputs(t *testing.T) {
	c := NewComposer(NewResolver(founderDID))
	subject := profileWith(subjectDID, StatusUnverified, StatusUnverified,
		Record{Issuer: verifierDID, Status: StatusInvalid})
	viewer := profileWith(verifierDID, StatusUnverified, StatusValid)
	prefs := &Preferences{HideBadges: true, Version: 3}

	subjectCopy := *subject
	dataCopy := *subject.Verification
	recordsCopy := append([]Record(nil), subject.Verification.Records...)
	viewerCopy := *viewer
	prefsCopy := *prefs

	_ = c.Compose(subject, viewer, verifierDID, prefs)

	assert.Equal(t, subjectCopy, *subject)
	assert.Equal(t, dataCopy, *subject.Verification)
	assert.Equal(t, recordsCopy, subject.Verification.Records)
	assert.Equal(t, viewerCopy, *viewer)
	assert.Equal(t, prefsCopy, *prefs)
}

func TestNewComposer_NilResolver(t *testing.T) {
	c := NewComposer(nil)
	require.NotNil(t, c.Resolver())

	got := c.Compose(profileWith(founderDID, StatusValid, ""), nil, "", nil)
	assert.Equal(t, RoleDefault, got.Subject.Role)
}
