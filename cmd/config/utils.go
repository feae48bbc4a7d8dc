/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

type configMap = map[string]any

// MergeYamlConfigs merges the YAML files in order. Later files override earlier ones.
// Nested maps are merged key by key.
func MergeYamlConfigs(filePaths ...string) ([]byte, error) {
	result := make(configMap)
	for _, filePath := range filePaths {
		current, err := readYamlConfig(filePath)
		if err != nil {
			return nil, err
		}
		result = reduceMerge(result, current)
	}
	content, err := yaml.Marshal(result)
	return content, errors.Wrap(err, "failed to encode merged config")
}

func readYamlConfig(filePath string) (configMap, error) {
	content, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file: %s", filePath)
	}
	current := make(configMap)
	if err = yaml.Unmarshal(content, &current); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file: %s", filePath)
	}
	return current, nil
}

func reduceMerge(accumulator, current configMap) configMap {
	for key, currentValue := range current {
		if currentMap, ok := currentValue.(configMap); ok {
			if accumulatorMap, ok := accumulator[key].(configMap); ok {
				accumulator[key] = reduceMerge(accumulatorMap, currentMap)
				continue
			}
		}
		accumulator[key] = currentValue
	}
	return accumulator
}
