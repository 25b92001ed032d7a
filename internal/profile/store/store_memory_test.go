package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"veritas/internal/verification"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func sampleProfile(did id.DID) *verification.Profile {
	return &verification.Profile{
		DID:         did,
		Handle:      "alice.example.com",
		DisplayName: "Alice",
		Verification: &verification.Data{
			Records: []verification.Record{
				{Issuer: "did:plc:issuer", Status: verification.StatusValid},
			},
			VerifiedStatus:        verification.StatusValid,
			TrustedVerifierStatus: verification.StatusUnverified,
		},
	}
}

func (s *InMemoryStoreSuite) TestSaveAndFind() {
	s.Run("missing profile is not found", func() {
		_, err := s.store.FindByDID(s.ctx, "did:plc:nobody")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("saved profile round trips", func() {
		p := sampleProfile("did:plc:alice")
		s.Require().NoError(s.store.Save(s.ctx, p))

		got, err := s.store.FindByDID(s.ctx, "did:plc:alice")
		s.Require().NoError(err)
		s.Equal(p, got)
	})

	s.Run("profile without did is rejected", func() {
		s.Error(s.store.Save(s.ctx, &verification.Profile{}))
		s.Error(s.store.Save(s.ctx, nil))
	})
}

func (s *InMemoryStoreSuite) TestIsolation() {
	p := sampleProfile("did:plc:alice")
	s.Require().NoError(s.store.Save(s.ctx, p))

	p.Verification.Records[0].Status = verification.StatusInvalid
	got, err := s.store.FindByDID(s.ctx, "did:plc:alice")
	s.Require().NoError(err)
	s.Equal(verification.StatusValid, got.Verification.Records[0].Status, "save must copy")

	got.Verification.VerifiedStatus = verification.StatusInvalid
	again, err := s.store.FindByDID(s.ctx, "did:plc:alice")
	s.Require().NoError(err)
	s.Equal(verification.StatusValid, again.Verification.VerifiedStatus, "find must copy")
}

func (s *InMemoryStoreSuite) TestFindManyAndDelete() {
	s.Require().NoError(s.store.Save(s.ctx, sampleProfile("did:plc:a")))
	s.Require().NoError(s.store.Save(s.ctx, &verification.Profile{DID: "did:plc:b"}))

	found, err := s.store.FindMany(s.ctx, []id.DID{"did:plc:a", "did:plc:b", "did:plc:c"})
	s.Require().NoError(err)
	s.Len(found, 2)
	s.Nil(found["did:plc:b"].Verification)

	s.Require().NoError(s.store.Delete(s.ctx, "did:plc:a"))
	s.ErrorIs(s.store.Delete(s.ctx, "did:plc:a"), sentinel.ErrNotFound)
}
