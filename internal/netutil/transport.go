package netutil

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// NewTransport creates an HTTP transport tuned for a small number of
// long-lived API hosts.
func NewTransport(logger *logrus.Logger) *http.Transport {
	logger.Debug("Creating HTTP transport")
	return &http.Transport{
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
	}
}

// NewHTTPClient creates an HTTP client with the shared transport and an
// overall request timeout. Per-call deadlines are layered on top with
// context timeouts by the callers.
func NewHTTPClient(timeout time.Duration, logger *logrus.Logger) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(logger),
	}
}
