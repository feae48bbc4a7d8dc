/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifier

type (
	// Envelope is a message as it travels from the sender to the receiver.
	// Only the credential field of the envelope tier is populated.
	Envelope struct {
		Message   string `json:"message"             yaml:"message"`
		Hash      string `json:"hash,omitempty"      yaml:"hash,omitempty"`
		Signature string `json:"signature,omitempty" yaml:"signature,omitempty"`
	}

	// Receipt is the receiver verdict on an envelope.
	Receipt struct {
		Status  Status `json:"status"           yaml:"status"`
		Message string `json:"message"          yaml:"message"`
		Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
		Error   string `json:"error,omitempty"  yaml:"error,omitempty"`
	}

	// Status is the receiver decision.
	Status string
)

// Receiver decisions.
const (
	Accepted Status = "Accepted"
	Rejected Status = "Rejected"
)

// Receipt details.
const (
	DetailNoSecurity       = "Message Received (No Security)"
	DetailHashValid        = "Hash Valid"
	DetailHashInvalid      = "Hash Invalid (message tampered or wrong hash)"
	DetailSignatureValid   = "Signature Valid"
	DetailSignatureInvalid = "Signature Invalid (message changed or wrong key)"
)

// Credential returns the hash or the signature, whichever is set.
func (e *Envelope) Credential() string {
	if e.Signature != "" {
		return e.Signature
	}
	return e.Hash
}

// Accepted returns true if the receiver accepted the envelope.
func (r *Receipt) Accepted() bool {
	return r.Status == Accepted
}
