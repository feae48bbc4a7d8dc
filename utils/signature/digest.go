/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signature

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// encodedDigestSize is the length of the hex form of a digest.
const encodedDigestSize = 2 * sha256.Size

// DigestSize is the length of a SHA-256 digest.
const DigestSize = sha256.Size

// ComputeDigest returns the SHA-256 digest of the message.
// It is unkeyed, so anyone can compute a matching digest for any message.
func ComputeDigest(message []byte) Digest {
	d := sha256.Sum256(message)
	return d[:]
}

// EncodeDigest returns the lowercase hex form of a digest.
func EncodeDigest(d Digest) string {
	return hex.EncodeToString(d)
}

// VerifyDigest recomputes the digest of the message and compares it to the claimed hex digest.
// Only the canonical lowercase form matches. Malformed input yields false.
func VerifyDigest(message []byte, claimed string) bool {
	if len(claimed) != encodedDigestSize {
		logger.Debugf("Malformed digest of length %d", len(claimed))
		return false
	}
	expected := EncodeDigest(ComputeDigest(message))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(claimed)) == 1
}
