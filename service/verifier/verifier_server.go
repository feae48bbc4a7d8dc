/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifier

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/decentralized-trust-research/tiered-verifier/utils/connection"
	"github.com/decentralized-trust-research/tiered-verifier/utils/logging"
	"github.com/decentralized-trust-research/tiered-verifier/utils/monitoring/promutil"
	"github.com/decentralized-trust-research/tiered-verifier/utils/signature"
)

// Server exposes the tier dispatcher over HTTP.
type Server struct {
	config     *Config
	keys       *signature.KeyStore
	dispatcher *Dispatcher
	metrics    *metrics
	router     *gin.Engine
	ready      chan struct{}
	readyOnce  sync.Once
}

type (
	// Health is the health check response.
	Health struct {
		Status             string `json:"status"`
		SignatureAvailable bool   `json:"signature-available"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

const publicKeyContentType = "application/x-pem-file"

// Legacy per-level routes. Each tier has a sender and a receiver action.
var levelRoutes = map[Tier][2]string{
	Plaintext: {"send", "receive"},
	Hash:      {"hash", "verify"},
	Signature: {"sign", "verify"},
}

var logger = logging.New("verifier")

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// New instantiate a new tier verifier server.
// The key pair is loaded once. If it cannot be loaded, the signature tier is unavailable
// while the other tiers keep serving.
func New(config *Config) *Server {
	return NewWithKeys(config, signature.LoadKeyStore(&config.Keys))
}

// NewWithKeys instantiate a new tier verifier server over the given key store.
func NewWithKeys(config *Config, keys *signature.KeyStore) *Server {
	logger.Info("Initializing new tier verifier server")
	if config.Server == nil {
		config.Server = connection.NewLocalHostServer()
	}
	s := &Server{
		config:     config,
		keys:       keys,
		dispatcher: NewDispatcher(signature.NewAuthenticator(keys)),
		metrics:    newMonitoring(),
		ready:      make(chan struct{}),
	}
	promutil.SetGaugeBool(s.metrics.KeyAvailable, keys.Available())
	s.router = s.newRouter()
	return s
}

// Run the tier verifier service until the context is done.
func (s *Server) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// We don't return error here to avoid stopping the service due to monitoring error.
		if err := s.metrics.Provider.StartPrometheusServer(gCtx, s.config.Monitoring.Server); err != nil {
			logger.Errorf("Monitoring server failed: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		return s.serve(gCtx)
	})
	return g.Wait()
}

func (s *Server) serve(ctx context.Context) error {
	l, err := s.config.Server.Listener()
	if err != nil {
		return err
	}
	defer connection.CloseConnectionsLog(l)
	s.readyOnce.Do(func() { close(s.ready) })

	logger.Infof("Tier verifier serving on %s", s.config.Server.Endpoint.String())
	defer logger.Info("Tier verifier stopped serving")
	return connection.ServeHTTP(ctx, s.config.Server.NewHTTPServer(s.router), l)
}

// WaitForReady waits until the server is listening.
// If the context ended before the service is ready, returns false.
func (s *Server) WaitForReady(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-s.ready:
		return true
	}
}

// Endpoint returns the effective server endpoint. It is valid once the server is ready.
func (s *Server) Endpoint() connection.Endpoint {
	return s.config.Server.Endpoint
}

// MetricsURL returns the prometheus URL, or empty if not serving.
func (s *Server) MetricsURL() string {
	return s.metrics.Provider.URL()
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", s.health)
	r.GET("/level3/public-key", s.publicKey)
	for t, actions := range levelRoutes {
		level := r.Group("/" + t.LevelName())
		level.POST("/"+actions[0], s.withTier(t, s.send))
		level.POST("/"+actions[1], s.withTier(t, s.receive))
	}

	tiers := r.Group("/tiers/:tier")
	tiers.POST("/send", s.withTierParam(s.send))
	tiers.POST("/receive", s.withTierParam(s.receive))
	return r
}

func (*Server) withTier(t Tier, h func(*gin.Context, Tier)) gin.HandlerFunc {
	return func(c *gin.Context) {
		h(c, t)
	}
}

func (*Server) withTierParam(h func(*gin.Context, Tier)) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := ParseTier(c.Param("tier"))
		if err != nil {
			c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		h(c, t)
	}
}

func (s *Server) send(c *gin.Context, t Tier) {
	defer promutil.ObserveVecSince(s.metrics.RequestDuration, time.Now(), t.String(), opSend)
	var req Envelope
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, t, opSend, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	resp, err := s.dispatcher.Send(t, req)
	if err != nil {
		s.fail(c, t, opSend, err, statusCode(err))
		return
	}
	promutil.IncCounterVec(s.metrics.Requests, t.String(), opSend, statusOK)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) receive(c *gin.Context, t Tier) {
	defer promutil.ObserveVecSince(s.metrics.RequestDuration, time.Now(), t.String(), opReceive)
	var req Envelope
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, t, opReceive, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	r, err := s.dispatcher.Receive(t, req)
	if err != nil && !errors.Is(err, signature.ErrKeyUnavailable) {
		s.fail(c, t, opReceive, err, statusCode(err))
		return
	}
	promutil.IncCounterVec(s.metrics.Requests, t.String(), opReceive, string(r.Status))
	if err != nil {
		c.JSON(statusCode(err), r)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, Health{Status: "ok", SignatureAvailable: s.keys.Available()})
}

func (s *Server) publicKey(c *gin.Context) {
	pemBytes, err := s.keys.PublicKeyPEM()
	if err != nil {
		c.JSON(statusCode(err), errorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, publicKeyContentType, pemBytes)
}

func (s *Server) fail(c *gin.Context, t Tier, op string, err error, code int) {
	promutil.IncCounterVec(s.metrics.Requests, t.String(), op, statusError)
	if code == http.StatusInternalServerError {
		logger.ErrorStackTrace(err)
	} else {
		logger.Debugf("%s %s request failed [%d]: %v", t, op, code, err)
	}
	c.JSON(code, errorResponse{Error: err.Error()})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, signature.ErrKeyUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUnknownTier):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("%s %s [%d] %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
