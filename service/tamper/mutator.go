/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tamper

import (
	"math/rand"
	"strings"
	"unicode/utf8"
)

// Mutator returns an altered copy of an intercepted message.
// Returning the message unchanged is reported as ErrNoMutation.
type Mutator func(message string) string

// Replace substitutes every occurrence of old with replacement.
func Replace(old, replacement string) Mutator {
	return func(message string) string {
		return strings.ReplaceAll(message, old, replacement)
	}
}

// Append adds a suffix to the message.
func Append(suffix string) Mutator {
	return func(message string) string {
		return message + suffix
	}
}

// FlipByte flips the lowest bit of the byte at the given index, modulo the message length.
// A negative index counts from the end. An empty message is left unchanged.
func FlipByte(index int) Mutator {
	return func(message string) string {
		if len(message) == 0 {
			return message
		}
		b := []byte(message)
		n := len(b)
		b[((index%n)+n)%n] ^= 0x01
		return string(b)
	}
}

// RandomByte XORs a random ASCII byte of the message with a random non-zero 7-bit value.
// Bytes of multi-byte runes are never touched, so a valid UTF-8 message stays valid and
// survives a JSON round trip unchanged. A message without ASCII bytes gets a random
// ASCII byte appended instead. An empty message is left unchanged.
// The returned mutator is not safe for concurrent use, as is the given source.
func RandomByte(rnd *rand.Rand) Mutator {
	return func(message string) string {
		if len(message) == 0 {
			return message
		}
		ascii := 0
		for i := range len(message) {
			if message[i] < utf8.RuneSelf {
				ascii++
			}
		}
		if ascii == 0 {
			return message + string(rune(0x20+rnd.Intn(0x5f)))
		}
		k := rnd.Intn(ascii)
		b := []byte(message)
		for i := range b {
			if b[i] >= utf8.RuneSelf {
				continue
			}
			if k == 0 {
				b[i] ^= byte(1 + rnd.Intn(0x7f))
				break
			}
			k--
		}
		return string(b)
	}
}
