/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tamper

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/decentralized-trust-research/tiered-verifier/service/verifier"
)

type (
	// Scenario is a single man-in-the-middle attempt on a tier.
	Scenario struct {
		Tier    verifier.Tier
		Message string
		Mutator Mutator
		// Expect is the receiver status that proves the tier behaves as advertised.
		Expect verifier.Status
	}

	// Result is the outcome and transcript of a scenario.
	Result struct {
		ID         string          `yaml:"id"`
		Round      int             `yaml:"round"`
		Tier       verifier.Tier   `yaml:"tier"`
		Original   string          `yaml:"original"`
		Tampered   string          `yaml:"tampered"`
		Credential string          `yaml:"credential,omitempty"`
		Expected   verifier.Status `yaml:"expected"`
		Actual     verifier.Status `yaml:"actual,omitempty"`
		Detail     string          `yaml:"detail,omitempty"`
		Error      string          `yaml:"error,omitempty"`
		Passed     bool            `yaml:"passed"`
		Steps      []Step          `yaml:"steps"`
	}

	// Step is a transcript entry of a single stage.
	Step struct {
		Stage    Stage              `yaml:"stage"`
		Envelope *verifier.Envelope `yaml:"envelope,omitempty"`
		Receipt  *verifier.Receipt  `yaml:"receipt,omitempty"`
	}

	// Stage of the tamper state machine.
	Stage string
)

// Stages in execution order.
const (
	StageOriginate Stage = "originate"
	StageIntercept Stage = "intercept"
	StageMutate    Stage = "mutate"
	StageForward   Stage = "forward"
	StageAssert    Stage = "assert"
)

// ErrNoMutation is reported when a mutator leaves the message unchanged.
var ErrNoMutation = errors.New("mutator did not change the message")

// ExpectedStatus returns the status a correct receiver of the tier reports for a tampered message.
// Only the unprotected tier accepts a tampered message.
func ExpectedStatus(t verifier.Tier) verifier.Status {
	if t == verifier.Plaintext {
		return verifier.Accepted
	}
	return verifier.Rejected
}

// DefaultScenarios returns a scenario per tier, with the same message and mutator.
func DefaultScenarios(message string, mutator Mutator) []*Scenario {
	tiers := verifier.AllTiers()
	scenarios := make([]*Scenario, len(tiers))
	for i, t := range tiers {
		scenarios[i] = &Scenario{
			Tier:    t,
			Message: message,
			Mutator: mutator,
			Expect:  ExpectedStatus(t),
		}
	}
	return scenarios
}

// Run executes a scenario: originate, intercept, mutate, forward, assert.
// The mutation applies to the message only. The credential travels unchanged.
// Any failure to complete the exchange fails the scenario with the cause.
func Run(ctx context.Context, ex Exchange, sc *Scenario) Result {
	res := Result{
		ID:       uuid.NewString(),
		Tier:     sc.Tier,
		Original: sc.Message,
		Expected: sc.Expect,
	}

	env, err := ex.Send(ctx, sc.Tier, verifier.Envelope{Message: sc.Message})
	if err != nil {
		return res.fail(errors.Wrap(err, "originate"))
	}
	res.addStep(StageOriginate, &env, nil)

	intercepted := env
	res.Credential = intercepted.Credential()
	res.addStep(StageIntercept, &intercepted, nil)

	tampered := intercepted
	tampered.Message = sc.Mutator(intercepted.Message)
	if tampered.Message == intercepted.Message {
		return res.fail(ErrNoMutation)
	}
	res.Tampered = tampered.Message
	res.addStep(StageMutate, &tampered, nil)

	receipt, err := ex.Receive(ctx, sc.Tier, tampered)
	res.addStep(StageForward, &tampered, &receipt)
	res.Actual = receipt.Status
	res.Detail = receipt.Detail
	if err != nil {
		return res.fail(errors.Wrap(err, "forward"))
	}

	res.Passed = receipt.Status == sc.Expect
	res.addStep(StageAssert, nil, &receipt)
	return res
}

func (r *Result) addStep(stage Stage, env *verifier.Envelope, receipt *verifier.Receipt) {
	step := Step{Stage: stage}
	if env != nil {
		e := *env
		step.Envelope = &e
	}
	if receipt != nil {
		rc := *receipt
		step.Receipt = &rc
	}
	r.Steps = append(r.Steps, step)
}

func (r *Result) fail(err error) Result {
	r.Passed = false
	r.Error = err.Error()
	return *r
}
