package platform

import (
	"bytes"
	"net/http"
	"strings"
)

// detectChallenge inspects a vendor response for bot-protection challenge
// pages. Search frontends in particular hide blocks behind 200/403/503 HTML
// instead of an honest error, and treating a challenge page as "no results"
// would silently corrupt a run.
func detectChallenge(statusCode int, headers http.Header, body []byte) (bool, string) {
	server := strings.ToLower(headers.Get("Server"))

	if statusCode == http.StatusForbidden || statusCode == http.StatusServiceUnavailable {
		if strings.Contains(server, "cloudflare") || headers.Get("CF-Ray") != "" {
			return true, "Cloudflare"
		}
	}

	lower := bytes.ToLower(body)
	switch {
	case bytes.Contains(lower, []byte("cf-challenge")) || bytes.Contains(lower, []byte("checking your browser")):
		return true, "Cloudflare"
	case bytes.Contains(lower, []byte("anomaly-modal")) || bytes.Contains(lower, []byte("unusual traffic")):
		return true, "traffic anomaly check"
	case bytes.Contains(lower, []byte("g-recaptcha")) || bytes.Contains(lower, []byte("h-captcha")):
		return true, "captcha"
	}

	return false, ""
}
