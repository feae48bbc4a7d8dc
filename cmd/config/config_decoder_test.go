/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/decentralized-trust-research/tiered-verifier/utils/connection"
)

type decodeTarget struct {
	Endpoint connection.Endpoint      `mapstructure:"endpoint"`
	Server   *connection.ServerConfig `mapstructure:"server"`
	Value    connection.ServerConfig  `mapstructure:"value"`
	Timeout  time.Duration            `mapstructure:"timeout"`
}

func decodeYaml(t *testing.T, content string) (*decodeTarget, error) {
	t.Helper()
	v := viper.New()
	require.NoError(t, readYamlConfigsFromIO(v, bytes.NewBufferString(content)))
	c := &decodeTarget{}
	return c, unmarshal(v, c)
}

func TestDecoderHook(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name     string
		content  string
		expected decodeTarget
	}{
		{
			name:    "strings",
			content: "endpoint: localhost:5000\nserver: ' server:6000 '\nvalue: value:7000\ntimeout: 1m30s\n",
			expected: decodeTarget{
				Endpoint: connection.Endpoint{Host: "localhost", Port: 5000},
				Server:   &connection.ServerConfig{Endpoint: connection.Endpoint{Host: "server", Port: 6000}},
				Value:    connection.ServerConfig{Endpoint: connection.Endpoint{Host: "value", Port: 7000}},
				Timeout:  90 * time.Second,
			},
		},
		{
			name: "structured",
			content: `
endpoint:
  host: example.com
  port: 443
server:
  endpoint: ':9000'
  read-timeout: 5s
`,
			expected: decodeTarget{
				Endpoint: connection.Endpoint{Host: "example.com", Port: 443},
				Server: &connection.ServerConfig{
					Endpoint:    connection.Endpoint{Port: 9000},
					ReadTimeout: 5 * time.Second,
				},
			},
		},
		{
			name:    "empty endpoint",
			content: "endpoint: ''\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, err := decodeYaml(t, tc.content)
			require.NoError(t, err)
			require.Equal(t, tc.expected, *c)
		})
	}
}

func TestDecoderHookErrors(t *testing.T) {
	t.Parallel()
	for _, content := range []string{
		"endpoint: no-port\n",
		"endpoint: host:port\n",
		"server: host:70000\n",
		"timeout: forever\n",
	} {
		t.Run(content, func(t *testing.T) {
			t.Parallel()
			_, err := decodeYaml(t, content)
			require.ErrorContains(t, err, "error decoding config")
		})
	}
}
