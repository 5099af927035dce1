// Package platform holds the per-vendor search adapters. Each adapter owns
// its own request construction and response normalization; the engine only
// ever sees the common search.Result shape.
package platform

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/FranksOps/dossier/internal/fingerprint"
	"github.com/FranksOps/dossier/internal/search"
	"github.com/FranksOps/dossier/pkg/httpclient"
	"github.com/FranksOps/dossier/pkg/proxy"
	"github.com/FranksOps/dossier/pkg/useragent"
)

// Config carries the shared collaborators and credentials the built-in
// adapters need. The HTTP client is passed in explicitly; there is no
// process-wide client singleton.
type Config struct {
	// Timeout for the shared vendor client. Zero means the httpclient default.
	Timeout time.Duration
	// Fingerprint selects the TLS profile for the shared transport. Empty
	// means the standard Go TLS stack.
	Fingerprint fingerprint.Profile
	// UAPool supplies User-Agent rotation. Nil means the default pool.
	UAPool *useragent.Pool
	// ProxyPool optionally rotates egress proxies per request.
	ProxyPool *proxy.Pool

	// GitHubToken authenticates GitHub API calls (higher rate limits).
	GitHubToken string
	// HunterKey is the hunter.io API key; the hunter adapter reports an
	// error result without it.
	HunterKey string
}

// NewClient builds the HTTP client shared by the API adapters, wiring in the
// fingerprint transport and proxy rotation from the config.
func NewClient(cfg Config) (*httpclient.Client, error) {
	profile := cfg.Fingerprint
	if profile == "" {
		profile = fingerprint.ProfileGo
	}

	var proxyFunc func(*http.Request) (*url.URL, error)
	if cfg.ProxyPool != nil {
		pool := cfg.ProxyPool
		proxyFunc = func(*http.Request) (*url.URL, error) {
			return pool.Next(), nil
		}
	}

	transport, err := fingerprint.Transport(profile, proxyFunc)
	if err != nil {
		return nil, fmt.Errorf("setup transport: %w", err)
	}

	return httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: 5,
		Transport:    transport,
	})
}

// DefaultRegistry registers the built-in adapters over a shared client.
func DefaultRegistry(cfg Config) (*search.Registry, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	uas := cfg.UAPool
	if uas == nil {
		uas = useragent.NewPool(nil)
	}

	reg := search.NewRegistry()
	reg.Register(NewGitHub(client, cfg.GitHubToken))
	reg.Register(NewReddit(client, uas))
	reg.Register(NewHunter(client, cfg.HunterKey))
	reg.Register(NewDuckDuckGo(client, uas))
	reg.Register(NewGoogle())
	reg.Register(NewTwitter())
	return reg, nil
}

// found, notFound and errResult build normalized results. The engine fills
// in Platform and Timestamp when adapters leave them zero, but setting them
// here keeps adapter unit tests self-contained.
func found(id, link, description, content string) search.Result {
	return search.Result{
		Platform:    id,
		Status:      search.StatusFound,
		URL:         link,
		Description: description,
		Content:     content,
		Timestamp:   time.Now().UTC(),
	}
}

func notFound(id, description string) search.Result {
	return search.Result{
		Platform:    id,
		Status:      search.StatusNotFound,
		Description: description,
		Timestamp:   time.Now().UTC(),
	}
}

func errResult(id, description string) search.Result {
	return search.Result{
		Platform:    id,
		Status:      search.StatusError,
		Description: description,
		Timestamp:   time.Now().UTC(),
	}
}

// rateLimited formats the distinguished 429 case: the Retry-After hint is
// surfaced in the description but the adapter itself never retries.
func rateLimited(id string, resp *http.Response) search.Result {
	hint := resp.Header.Get("Retry-After")
	if hint == "" {
		hint = "unknown"
	}
	return errResult(id, fmt.Sprintf("rate limited by vendor (retry after: %s)", hint))
}
