package archive

import (
	"crypto/tls"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// NewHTTPClient returns a retrying HTTP client with a hardened TLS
// configuration.
func NewHTTPClient(timeout time.Duration, retries int) *retryablehttp.Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS13,

		// CipherSuites applies only to TLS 1.0-1.2
		CipherSuites: []uint16{
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		},
	}

	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.Logger = log.New(io.Discard, "", 0)
	client.HTTPClient.Timeout = timeout
	client.HTTPClient.Transport = &http.Transport{
		TLSClientConfig:   tlsConfig,
		ForceAttemptHTTP2: true,
	}
	return client
}
