package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/lib/pq"

	"veritas/internal/verification"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
	"veritas/pkg/platform/tx"
	"veritas/pkg/requestcontext"
)

//go:embed schema.sql
var schemaSQL string

// PostgresStore persists profiles in PostgreSQL. The verification block is
// split across profiles (statuses) and profile_verifications (ordered records).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the profile tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate profiles: %w", err)
	}
	return nil
}

// Save upserts profile and replaces its verification records. When ctx
// carries a transaction (see SaveAll) the write joins it.
func (s *PostgresStore) Save(ctx context.Context, profile *verification.Profile) error {
	if profile == nil || profile.DID.IsNil() {
		return fmt.Errorf("profile with did is required")
	}
	return s.inTx(ctx, func(ctx context.Context) error {
		t, _ := tx.From(ctx)
		return saveProfile(ctx, t, profile)
	})
}

// SaveAll writes profiles atomically: either all are stored or none are.
func (s *PostgresStore) SaveAll(ctx context.Context, profiles []*verification.Profile) error {
	return s.inTx(ctx, func(ctx context.Context) error {
		for _, p := range profiles {
			if err := s.Save(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := tx.From(ctx); ok {
		return fn(ctx)
	}

	t, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = t.Rollback() }()

	if err := fn(tx.WithTx(ctx, t)); err != nil {
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func saveProfile(ctx context.Context, t *sql.Tx, profile *verification.Profile) error {
	var verifiedStatus, verifierStatus string
	hasVerification := profile.Verification != nil
	if hasVerification {
		verifiedStatus = string(profile.Verification.VerifiedStatus)
		verifierStatus = string(profile.Verification.TrustedVerifierStatus)
	}

	_, err := t.ExecContext(ctx, `
		INSERT INTO profiles (did, handle, display_name, has_verification, verified_status, trusted_verifier_status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (did) DO UPDATE SET
			handle = EXCLUDED.handle,
			display_name = EXCLUDED.display_name,
			has_verification = EXCLUDED.has_verification,
			verified_status = EXCLUDED.verified_status,
			trusted_verifier_status = EXCLUDED.trusted_verifier_status,
			updated_at = EXCLUDED.updated_at`,
		profile.DID.String(), profile.Handle, profile.DisplayName,
		hasVerification, verifiedStatus, verifierStatus, requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	if _, err := t.ExecContext(ctx, `DELETE FROM profile_verifications WHERE subject_did = $1`, profile.DID.String()); err != nil {
		return fmt.Errorf("clear profile verifications: %w", err)
	}
	if !hasVerification {
		return nil
	}
	for i, r := range profile.Verification.Records {
		_, err := t.ExecContext(ctx, `
			INSERT INTO profile_verifications (subject_did, position, issuer_did, status)
			VALUES ($1, $2, $3, $4)`,
			profile.DID.String(), i, r.Issuer.String(), string(r.Status),
		)
		if err != nil {
			return fmt.Errorf("insert profile verification: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) FindByDID(ctx context.Context, did id.DID) (*verification.Profile, error) {
	profiles, err := s.FindMany(ctx, []id.DID{did})
	if err != nil {
		return nil, err
	}
	p, ok := profiles[did]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p, nil
}

// FindMany returns the profiles that exist among dids; missing ones are omitted.
func (s *PostgresStore) FindMany(ctx context.Context, dids []id.DID) (map[id.DID]*verification.Profile, error) {
	out := make(map[id.DID]*verification.Profile, len(dids))
	if len(dids) == 0 {
		return out, nil
	}
	keys := make([]string, len(dids))
	for i, did := range dids {
		keys[i] = did.String()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT did, handle, display_name, has_verification, verified_status, trusted_verifier_status
		FROM profiles
		WHERE did = ANY($1)`, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			did, handle, displayName       string
			hasVerification                bool
			verifiedStatus, verifierStatus string
		)
		if err := rows.Scan(&did, &handle, &displayName, &hasVerification, &verifiedStatus, &verifierStatus); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p := &verification.Profile{
			DID:         id.DID(did),
			Handle:      handle,
			DisplayName: displayName,
		}
		if hasVerification {
			p.Verification = &verification.Data{
				VerifiedStatus:        verification.Status(verifiedStatus),
				TrustedVerifierStatus: verification.Status(verifierStatus),
			}
		}
		out[p.DID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	if err := s.loadRecords(ctx, keys, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) loadRecords(ctx context.Context, keys []string, profiles map[id.DID]*verification.Profile) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject_did, issuer_did, status
		FROM profile_verifications
		WHERE subject_did = ANY($1)
		ORDER BY subject_did, position`, pq.Array(keys))
	if err != nil {
		return fmt.Errorf("find profile verifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var subject, issuer, status string
		if err := rows.Scan(&subject, &issuer, &status); err != nil {
			return fmt.Errorf("scan profile verification: %w", err)
		}
		p, ok := profiles[id.DID(subject)]
		if !ok || p.Verification == nil {
			continue
		}
		p.Verification.Records = append(p.Verification.Records, verification.Record{
			Issuer: id.DID(issuer),
			Status: verification.Status(status),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate profile verifications: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, did id.DID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE did = $1`, did.String())
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
