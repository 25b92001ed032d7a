//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseDID checks that parsing never panics and that accepted values
// round-trip unchanged.
func FuzzParseDID(f *testing.F) {
	f.Add("")
	f.Add("did:plc:ewvi7nxzyoun6zhxrhs64oiz")
	f.Add("did:web:example.com")
	f.Add("did:")
	f.Add("'; DROP TABLE profiles;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("did:plc:abc\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		did, err := ParseDID(input)
		if err != nil {
			return
		}
		if did.String() != input {
			t.Errorf("accepted DID changed value: %q -> %q", input, did)
		}
		roundTrip, err := ParseDID(did.String())
		if err != nil || roundTrip != did {
			t.Errorf("valid DID failed round-trip: %v", err)
		}
		if !utf8.ValidString(input) {
			t.Error("non-UTF8 input was accepted")
		}
	})
}
