/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/decentralized-trust-research/tiered-verifier/utils/logging"
)

const (
	tcpProtocol = "tcp"

	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 30 * time.Second
)

var logger = logging.New("connection")

type (
	// ServerConfig describes the connection parameter for a server.
	ServerConfig struct {
		Endpoint     Endpoint      `mapstructure:"endpoint"      yaml:"endpoint"`
		ReadTimeout  time.Duration `mapstructure:"read-timeout"  yaml:"read-timeout"`
		WriteTimeout time.Duration `mapstructure:"write-timeout" yaml:"write-timeout"`
	}

	// Service describes the method that are required for a service to run.
	Service interface {
		// Run executes the service until the context is done.
		Run(ctx context.Context) error
		// WaitForReady waits for the service resources to initialize.
		// If the context ended before the service is ready, returns false.
		WaitForReady(ctx context.Context) bool
	}
)

// NewLocalHostServer returns a default server config with endpoint "localhost:0".
func NewLocalHostServer() *ServerConfig {
	return &ServerConfig{Endpoint: *NewLocalHost()}
}

// Listener instantiate a [net.Listener] and updates the config port with the effective port.
func (c *ServerConfig) Listener() (net.Listener, error) {
	listener, err := net.Listen(tcpProtocol, c.Endpoint.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to listen")
	}

	tcpAddress, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return nil, errors.Join(errors.New("failed to cast to TCP address"), listener.Close())
	}
	c.Endpoint.Port = tcpAddress.Port

	logger.Infof("Listening at: %s://%s", tcpProtocol, c.Endpoint.String())
	return listener, nil
}

// NewHTTPServer creates an [http.Server] using the config timeouts.
func (c *ServerConfig) NewHTTPServer(handler http.Handler) *http.Server {
	readTimeout := c.ReadTimeout
	if readTimeout == 0 {
		readTimeout = defaultReadTimeout
	}
	writeTimeout := c.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &http.Server{
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		Handler:           handler,
	}
}

// ServeHTTP serves on the given listener until the context ends.
// It returns once the server is closed.
func ServeHTTP(ctx context.Context, server *http.Server, l net.Listener) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(l)
	})
	g.Go(func() error {
		<-gCtx.Done()
		return errors.Wrap(server.Close(), "failed to close server")
	})
	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server stopped with an error")
	}
	return nil
}

// CloseConnectionsLog closes the connections and logs any failure.
func CloseConnectionsLog[T io.Closer](connections ...T) {
	errs := make([]error, 0, len(connections))
	for _, c := range connections {
		errs = append(errs, c.Close())
	}
	if err := errors.Join(errs...); err != nil && !errors.Is(err, net.ErrClosed) {
		logger.Errorf("failed closing connections: %v", err)
	}
}
