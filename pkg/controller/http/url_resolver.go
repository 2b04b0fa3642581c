package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GetFrontendURL returns the frontend URL based on configuration and request
// configuredURL: URL configured via environment variable or configuration
// If configuredURL is empty, dynamically constructs URL from request headers
func GetFrontendURL(r *http.Request, configuredURL string) string {
	if configuredURL != "" {
		return strings.TrimSuffix(configuredURL, "/")
	}

	// Priority: Alt-Used (Cloud Run) > X-Forwarded-Host > Host
	host := r.Host
	if altUsed := r.Header.Get("Alt-Used"); altUsed != "" {
		host = altUsed
	} else if forwardedHost := r.Header.Get("X-Forwarded-Host"); forwardedHost != "" {
		// First entry is the original client request
		host = strings.TrimSpace(strings.Split(forwardedHost, ",")[0])
	}
	if host == "" {
		host = "localhost"
	}

	scheme := "https"
	if isLocalhost(&http.Request{Host: host}) {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s", scheme, host)
}

// SameHost reports whether two absolute URLs name the same host and port.
// The scheme is ignored since TLS usually terminates at a proxy.
func SameHost(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil || ua.Host == "" {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil || ub.Host == "" {
		return false
	}
	return strings.EqualFold(ua.Host, ub.Host)
}
