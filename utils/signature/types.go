/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signature

import (
	"github.com/cockroachdb/errors"

	"github.com/decentralized-trust-research/tiered-verifier/utils/logging"
)

type (
	// Digest of a message.
	Digest = []byte
	// Signature of a message.
	Signature = []byte
)

var (
	// ErrSignatureMismatch is returned when a verifier detect a wrong signature.
	// Malformed signatures are reported with the same error, so callers cannot tell them apart.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrKeyUnavailable is returned when the key pair was not loaded.
	ErrKeyUnavailable = errors.New("key not loaded")
)

var logger = logging.New("signature")
