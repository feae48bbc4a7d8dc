/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"net"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Endpoint describes a remote endpoint.
type Endpoint struct {
	Host string `mapstructure:"host" json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `mapstructure:"port" json:"port,omitempty" yaml:"port,omitempty"`
}

// Empty returns true if no port is assigned.
func (e *Endpoint) Empty() bool {
	return e == nil || e.Port == 0
}

// Address returns a string representation of the endpoint's address.
func (e *Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// String returns a string representation of the endpoint.
func (e *Endpoint) String() string {
	return e.Address()
}

// URL returns an HTTP URL of the endpoint with the given path elements.
func (e *Endpoint) URL(elem ...string) (string, error) {
	u, err := url.JoinPath("http://"+e.Address(), elem...)
	return u, errors.Wrap(err, "failed formatting URL")
}

// NewEndpoint parses an endpoint from an address string.
// An empty value yields an empty endpoint.
func NewEndpoint(value string) (*Endpoint, error) {
	if len(value) == 0 {
		return &Endpoint{}, nil
	}
	host, portStr, err := net.SplitHostPort(value)
	if err != nil {
		return nil, errors.Wrapf(err, "not in format host:port: '%s'", value)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid port: '%s'", portStr)
	}
	if port < 0 || port > 65535 {
		return nil, errors.Newf("port out of range: %d", port)
	}
	return &Endpoint{Host: host, Port: port}, nil
}

// CreateEndpoint parses an endpoint from an address string.
// It panics if it fails to parse.
func CreateEndpoint(value string) *Endpoint {
	endpoint, err := NewEndpoint(value)
	if err != nil {
		panic(errors.Wrap(err, "could not create endpoint"))
	}
	return endpoint
}

// NewLocalHost returns a default endpoint "localhost:0".
func NewLocalHost() *Endpoint {
	return &Endpoint{Host: "localhost"}
}
