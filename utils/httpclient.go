package utils

import (
	"net/http"
	u "net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultUserAgent = "firmget/1.0"

// NewHTTPClient builds the shared client a download operation is handed.
// The core takes the client as an injected collaborator and never owns
// one of its own.
func NewHTTPClient(timeout time.Duration, keepAliveTO time.Duration, proxyURL string) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100, // for connection reuse
		IdleConnTimeout:     keepAliveTO,
		DisableCompression:  true,
		MaxConnsPerHost:     0,
	}
	if proxyURL != "" {
		proxyURLParsed, err := u.Parse(proxyURL)
		if err != nil {
			log.Error().Err(err).Str("proxy", proxyURL).Msg("Invalid proxy URL, proceeding without proxy")
		} else {
			transport.Proxy = http.ProxyURL(proxyURLParsed)
			log.Debug().Str("proxy", proxyURL).Msg("Using proxy for connections")
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
