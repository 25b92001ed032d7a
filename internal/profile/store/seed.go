package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"veritas/internal/verification"
)

// BulkSaver stores a batch of profiles atomically.
type BulkSaver interface {
	SaveAll(ctx context.Context, profiles []*verification.Profile) error
}

// LoadSeed reads a JSON array of profiles from r and stores them in one batch.
// It returns the number of profiles written.
func LoadSeed(ctx context.Context, r io.Reader, store BulkSaver) (int, error) {
	var profiles []*verification.Profile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&profiles); err != nil {
		return 0, fmt.Errorf("decode seed profiles: %w", err)
	}
	if err := store.SaveAll(ctx, profiles); err != nil {
		return 0, fmt.Errorf("save seed profiles: %w", err)
	}
	return len(profiles), nil
}
