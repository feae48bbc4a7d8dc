/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifier

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Tier is a message protection level.
type Tier int

// Supported tiers, ordered by strength.
const (
	Plaintext Tier = iota + 1
	Hash
	Signature
)

// ErrUnknownTier is returned for a tier that is not one of the supported tiers.
var ErrUnknownTier = errors.New("unknown tier")

var tierNames = map[Tier]string{
	Plaintext: "plaintext",
	Hash:      "hash",
	Signature: "signature",
}

// AllTiers returns the supported tiers in ascending strength.
func AllTiers() []Tier {
	return []Tier{Plaintext, Hash, Signature}
}

// ParseTier accepts a tier name (plaintext, hash, signature), its level alias (level1..level3),
// or the bare level number.
func ParseTier(s string) (Tier, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for t, name := range tierNames {
		if v == name || v == t.LevelName() || v == strings.TrimPrefix(t.LevelName(), "level") {
			return t, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownTier, "'%s'", s)
}

// Valid returns true for a supported tier.
func (t Tier) Valid() bool {
	_, ok := tierNames[t]
	return ok
}

// Level returns the numeric level of the tier.
func (t Tier) Level() int {
	return int(t)
}

// LevelName returns the level alias of the tier, e.g., "level2".
func (t Tier) LevelName() string {
	return "level" + string(rune('0'+t.Level()))
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrUnknownTier
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes any form accepted by ParseTier.
func (t *Tier) UnmarshalText(text []byte) error {
	v, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
