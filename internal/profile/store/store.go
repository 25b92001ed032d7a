// Package store persists profiles together with their verification block.
package store

import (
	"veritas/internal/verification"
)

// cloneProfile deep-copies p so stored data never aliases caller memory.
func cloneProfile(p *verification.Profile) *verification.Profile {
	if p == nil {
		return nil
	}
	out := *p
	if p.Verification != nil {
		data := *p.Verification
		if p.Verification.Records != nil {
			data.Records = append([]verification.Record(nil), p.Verification.Records...)
		}
		out.Verification = &data
	}
	return &out
}
