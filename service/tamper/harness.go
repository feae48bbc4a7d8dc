/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tamper

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"

	"github.com/decentralized-trust-research/tiered-verifier/service/verifier"
	"github.com/decentralized-trust-research/tiered-verifier/utils/logging"
	"github.com/decentralized-trust-research/tiered-verifier/utils/monitoring/promutil"
)

var logger = logging.New("tamper")

// Harness runs tamper rounds against an exchange and reports whether every tier
// behaved as advertised.
type Harness struct {
	config   *Config
	exchange Exchange
	limiter  ratelimit.Limiter
	metrics  *metrics
}

// NewHarness instantiate a harness over the given exchange.
func NewHarness(config *Config, exchange Exchange) *Harness {
	return &Harness{
		config:   config,
		exchange: exchange,
		limiter:  newLimiter(config.RateLimit),
		metrics:  newMonitoring(),
	}
}

// Run executes all the rounds. Tiers of the same round run concurrently.
// A scenario failure is reported, not returned. An error is returned only if the context
// ended before all rounds completed. The report of the completed rounds is returned anyway.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	seed := h.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	report := &Report{
		ID:       uuid.NewString(),
		Receiver: h.receiverName(),
		Seed:     seed,
		Rounds:   h.config.rounds(),
		Started:  time.Now(),
		Summary:  make(map[string]*TierSummary),
	}
	defer func() { report.Finished = time.Now() }()
	logger.Infof("Starting tamper run %s against %s (rounds: %d, seed: %d)",
		report.ID, report.Receiver, report.Rounds, seed)

	mCtx, mCancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer mCancel()
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := h.metrics.Provider.StartPrometheusServer(mCtx, h.config.Monitoring.Server); err != nil {
			logger.Errorf("Monitoring server failed: %v", err)
		}
	}()

	rnd := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible mutations, not secrets.
	for round := 1; round <= report.Rounds; round++ {
		results, err := h.runRound(ctx, round, h.roundMutator(round, rnd))
		report.add(results...)
		if err != nil {
			return report, err
		}
	}

	for tier, s := range report.Summary {
		logger.Infof("Tier %s: %d passed, %d failed", tier, s.Passed, s.Failed)
	}
	return report, nil
}

func (h *Harness) roundMutator(round int, rnd *rand.Rand) func() Mutator {
	if round == 1 {
		m := h.config.mutation()
		if m == defaultMutation && !strings.Contains(h.config.message(), m.From) {
			// A custom message left with the default substitution.
			logger.Infof("Message does not contain '%s'. Round 1 flips its first byte instead", m.From)
			return func() Mutator { return FlipByte(0) }
		}
		return func() Mutator { return Replace(m.From, m.To) }
	}
	// Each scenario gets its own source, so the tiers can run concurrently
	// while the run stays reproducible.
	return func() Mutator {
		return RandomByte(rand.New(rand.NewSource(rnd.Int63()))) //nolint:gosec // reproducible mutations.
	}
}

func (h *Harness) runRound(ctx context.Context, round int, newMutator func() Mutator) ([]Result, error) {
	scenarios := DefaultScenarios(h.config.message(), nil)
	for _, sc := range scenarios {
		sc.Mutator = newMutator()
	}

	results := make([]Result, len(scenarios))
	g, gCtx := errgroup.WithContext(ctx)
	for i, sc := range scenarios {
		g.Go(func() error {
			h.limiter.Take()
			if err := gCtx.Err(); err != nil {
				return errors.Wrap(err, "tamper run interrupted")
			}
			res := Run(gCtx, h.exchange, sc)
			res.Round = round
			h.record(&res)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return completed(results), err
	}
	return results, nil
}

func (h *Harness) record(res *Result) {
	if res.Passed {
		promutil.IncCounterVec(h.metrics.Scenarios, res.Tier.String(), resultPass)
		logger.Infof("[PASS] round %d %s: '%s' -> '%s' was %s",
			res.Round, res.Tier, res.Original, res.Tampered, res.Actual)
		return
	}
	promutil.IncCounterVec(h.metrics.Scenarios, res.Tier.String(), resultFail)
	if res.Error != "" {
		logger.Warnf("[FAIL] round %d %s: expected %s, got %s: %s",
			res.Round, res.Tier, res.Expected, statusOrNone(res.Actual), res.Error)
		return
	}
	logger.Warnf("[FAIL] round %d %s: expected %s, got %s (%s)",
		res.Round, res.Tier, res.Expected, res.Actual, res.Detail)
}

func (h *Harness) receiverName() string {
	if h.config.Receiver.Endpoint.Empty() {
		return "in-process"
	}
	return h.config.Receiver.Endpoint.String()
}

func completed(results []Result) []Result {
	done := make([]Result, 0, len(results))
	for _, r := range results {
		if r.ID != "" {
			done = append(done, r)
		}
	}
	return done
}

func statusOrNone(s verifier.Status) string {
	if s == "" {
		return "no receipt"
	}
	return string(s)
}
