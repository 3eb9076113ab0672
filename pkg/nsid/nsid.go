// Package nsid contains the player/session identifier used by the Northstar
// master server.
package nsid

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// ID is a 128-bit identifier. Its canonical text form is 32 lowercase hex
// digits.
type ID [16]byte

var (
	ErrInvalidLength = errors.New("id must be 32 hex digits")
	ErrNotHex        = errors.New("id contains non-hex digits")
)

// New mints a random ID.
func New() ID {
	var x ID
	if _, err := rand.Read(x[:]); err != nil {
		panic(fmt.Errorf("generate id: %w", err))
	}
	return x
}

// FromBytes copies b into an ID. It panics if b is not exactly 16 bytes.
func FromBytes(b []byte) ID {
	var x ID
	if len(b) != len(x) {
		panic("nsid: expected 16 bytes")
	}
	copy(x[:], b)
	return x
}

// Parse parses the canonical text form of an ID. Uppercase hex digits are
// accepted.
func Parse(s string) (ID, error) {
	var x ID
	if len(s) != hex.EncodedLen(len(x)) {
		return x, ErrInvalidLength
	}
	if _, err := hex.Decode(x[:], []byte(s)); err != nil {
		return x, ErrNotHex
	}
	return x, nil
}

func (x ID) String() string {
	return hex.EncodeToString(x[:])
}

func (x ID) MarshalText() ([]byte, error) {
	b := make([]byte, hex.EncodedLen(len(x)))
	hex.Encode(b, x[:])
	return b, nil
}

func (x *ID) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*x = v
	return nil
}
