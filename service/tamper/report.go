/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tamper

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Report summarizes a harness run.
	Report struct {
		ID       string                  `yaml:"id"`
		Receiver string                  `yaml:"receiver"`
		Seed     int64                   `yaml:"seed"`
		Rounds   int                     `yaml:"rounds"`
		Started  time.Time               `yaml:"started"`
		Finished time.Time               `yaml:"finished"`
		Summary  map[string]*TierSummary `yaml:"summary"`
		Results  []Result                `yaml:"results"`
	}

	// TierSummary counts the scenario outcomes of a tier.
	TierSummary struct {
		Passed int `yaml:"passed"`
		Failed int `yaml:"failed"`
	}
)

func (r *Report) add(results ...Result) {
	for i := range results {
		res := &results[i]
		s, ok := r.Summary[res.Tier.String()]
		if !ok {
			s = &TierSummary{}
			r.Summary[res.Tier.String()] = s
		}
		if res.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		r.Results = append(r.Results, *res)
	}
}

// Passed returns true if at least one scenario ran and all of them passed.
func (r *Report) Passed() bool {
	if len(r.Results) == 0 {
		return false
	}
	for _, s := range r.Summary {
		if s.Failed > 0 {
			return false
		}
	}
	return true
}

// Failures returns the failed scenarios.
func (r *Report) Failures() []Result {
	var failures []Result
	for _, res := range r.Results {
		if !res.Passed {
			failures = append(failures, res)
		}
	}
	return failures
}

// Write stores the report as YAML.
func (r *Report) Write(path string) error {
	content, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "failed to encode report")
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrap(err, "failed to create report directory")
	}
	return errors.Wrapf(os.WriteFile(path, content, 0o600), "failed to write report to %s", path)
}

// ReadReport loads a report written by Write.
func ReadReport(path string) (*Report, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read report")
	}
	r := &Report{}
	return r, errors.Wrap(yaml.Unmarshal(content, r), "failed to decode report")
}
