/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/decentralized-trust-research/tiered-verifier/utils/connection"
)

// decoderHook contains custom unmarshalling for types not supported by default by mapstructure.
func decoderHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		durationDecoder, serverDecoder, serverPointerDecoder, endpointDecoder,
	))
}

func durationDecoder(dataType, targetType reflect.Type, rawData any) (result any, err error) {
	stringData, ok := getStringData(dataType, rawData)
	if !ok || targetType != reflect.TypeOf(time.Duration(0)) {
		return rawData, nil
	}
	duration, err := time.ParseDuration(stringData)
	return duration, errors.Wrap(err, "failed to parse duration")
}

func endpointDecoder(dataType, targetType reflect.Type, rawData any) (result any, err error) {
	stringData, ok := getStringData(dataType, rawData)
	if !ok || targetType != reflect.TypeOf(connection.Endpoint{}) {
		return rawData, nil
	}
	endpoint, err := connection.NewEndpoint(stringData)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse endpoint")
	}
	return *endpoint, nil
}

func serverDecoder(dataType, targetType reflect.Type, rawData any) (result any, err error) {
	stringData, ok := getStringData(dataType, rawData)
	if !ok || targetType != reflect.TypeOf(connection.ServerConfig{}) {
		return rawData, nil
	}
	return newServerConfig(stringData)
}

func serverPointerDecoder(dataType, targetType reflect.Type, rawData any) (result any, err error) {
	stringData, ok := getStringData(dataType, rawData)
	if !ok || targetType != reflect.TypeOf(&connection.ServerConfig{}) {
		return rawData, nil
	}
	server, err := newServerConfig(stringData)
	if err != nil {
		return nil, err
	}
	return &server, nil
}

func newServerConfig(address string) (connection.ServerConfig, error) {
	endpoint, err := connection.NewEndpoint(address)
	if err != nil {
		return connection.ServerConfig{}, errors.Wrap(err, "failed to parse server endpoint")
	}
	return connection.ServerConfig{Endpoint: *endpoint}, nil
}

// getStringData returns the raw data as a string if it is a string or a [fmt.Stringer].
func getStringData(dataType reflect.Type, rawData any) (string, bool) {
	switch {
	case dataType.Kind() == reflect.String:
		return strings.TrimSpace(reflect.ValueOf(rawData).String()), true
	case dataType.Implements(reflect.TypeOf((*fmt.Stringer)(nil)).Elem()):
		s, ok := rawData.(fmt.Stringer)
		if !ok {
			return "", false
		}
		return s.String(), true
	default:
		return "", false
	}
}
