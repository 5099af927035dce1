package platform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/FranksOps/dossier/internal/search"
	"github.com/FranksOps/dossier/pkg/httpclient"
	"github.com/FranksOps/dossier/pkg/useragent"
)

const ddgBase = "https://html.duckduckgo.com"

// maxDDGBody caps how much of the result page is read.
const maxDDGBody = 2 << 20

// DuckDuckGo searches the HTML (no-JS) DuckDuckGo frontend and scrapes the
// organic results. There is no official API, so presence means "the exact
// query string appears in at least one web result" rather than a verified
// account.
type DuckDuckGo struct {
	client  *httpclient.Client
	uas     *useragent.Pool
	baseURL string
}

var _ search.Adapter = (*DuckDuckGo)(nil)

// NewDuckDuckGo creates the DuckDuckGo adapter.
func NewDuckDuckGo(client *httpclient.Client, uas *useragent.Pool) *DuckDuckGo {
	return &DuckDuckGo{
		client:  client,
		uas:     uas,
		baseURL: ddgBase,
	}
}

func (d *DuckDuckGo) ID() string                      { return "duckduckgo" }
func (d *DuckDuckGo) Name() string                    { return "DuckDuckGo" }
func (d *DuckDuckGo) CheckMethod() search.CheckMethod { return search.CheckAPI }

func (d *DuckDuckGo) Search(ctx context.Context, q search.Query) (search.Result, error) {
	term := fmt.Sprintf("%q", strings.TrimSpace(q.Text))
	endpoint := fmt.Sprintf("%s/html/?q=%s", d.baseURL, url.QueryEscape(term))

	resp, err := d.client.Get(ctx, endpoint, map[string]string{
		"User-Agent": d.uas.GetRandom(),
		"Accept":     "text/html",
	})
	if err != nil {
		return errResult(d.ID(), fmt.Sprintf("duckduckgo request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return rateLimited(d.ID(), resp), nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDDGBody))
	if err != nil {
		return errResult(d.ID(), fmt.Sprintf("read duckduckgo response: %v", err)), nil
	}

	if blocked, src := detectChallenge(resp.StatusCode, resp.Header, body); blocked {
		return errResult(d.ID(), fmt.Sprintf("blocked by %s challenge", src)), nil
	}
	if resp.StatusCode != http.StatusOK {
		return errResult(d.ID(), fmt.Sprintf("duckduckgo returned status %d", resp.StatusCode)), nil
	}

	links, titles, err := parseDDGResults(body)
	if err != nil {
		return errResult(d.ID(), fmt.Sprintf("parse duckduckgo response: %v", err)), nil
	}

	if len(links) == 0 {
		return notFound(d.ID(), fmt.Sprintf("no web results for %s", term)), nil
	}

	content := strings.Join(titles, "\n")
	return found(d.ID(), links[0],
		fmt.Sprintf("%d web results for %s", len(links), term), content), nil
}

// parseDDGResults extracts organic result links and titles from the no-JS
// results page.
func parseDDGResults(body []byte) ([]string, []string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}

	var links, titles []string
	doc.Find("a.result__a").Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		links = append(links, resolveDDGRedirect(href))
		titles = append(titles, strings.TrimSpace(s.Text()))
	})

	return links, titles, nil
}

// resolveDDGRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the
// target URL; non-redirect links pass through unchanged.
func resolveDDGRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded
		}
	}
	return href
}
