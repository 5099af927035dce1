package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/FranksOps/dossier/internal/search"
	"github.com/FranksOps/dossier/pkg/httpclient"
	"github.com/FranksOps/dossier/pkg/useragent"
)

const redditBase = "https://www.reddit.com"

// Reddit resolves usernames through the public about.json endpoint. Reddit
// rejects the default Go User-Agent, so every request carries one from the
// pool. Non-username queries fall back to an unverified search link.
type Reddit struct {
	client  *httpclient.Client
	uas     *useragent.Pool
	baseURL string
}

var _ search.Adapter = (*Reddit)(nil)

// NewReddit creates the Reddit adapter.
func NewReddit(client *httpclient.Client, uas *useragent.Pool) *Reddit {
	return &Reddit{
		client:  client,
		uas:     uas,
		baseURL: redditBase,
	}
}

func (r *Reddit) ID() string                      { return "reddit" }
func (r *Reddit) Name() string                    { return "Reddit" }
func (r *Reddit) CheckMethod() search.CheckMethod { return search.CheckAPI }

type redditAbout struct {
	Data struct {
		Name         string  `json:"name"`
		TotalKarma   int     `json:"total_karma"`
		CreatedUTC   float64 `json:"created_utc"`
		IsSuspended  bool    `json:"is_suspended"`
		SubredditObj struct {
			PublicDescription string `json:"public_description"`
		} `json:"subreddit"`
	} `json:"data"`
}

func (r *Reddit) Search(ctx context.Context, q search.Query) (search.Result, error) {
	if q.Type != search.TypeUsername {
		// No presence API for emails, phones or names; hand back a search
		// deep link the caller can inspect manually.
		link := fmt.Sprintf("%s/search/?q=%s", r.baseURL, url.QueryEscape(fmt.Sprintf("%q", q.Text)))
		return found(r.ID(), link, "Reddit search link (manual verification required)", ""), nil
	}

	endpoint := fmt.Sprintf("%s/user/%s/about.json", r.baseURL, url.PathEscape(q.Text))
	resp, err := r.client.Get(ctx, endpoint, map[string]string{
		"User-Agent": r.uas.GetSequential(),
		"Accept":     "application/json",
	})
	if err != nil {
		return errResult(r.ID(), fmt.Sprintf("reddit request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return notFound(r.ID(), fmt.Sprintf("no Reddit user named %q", q.Text)), nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return rateLimited(r.ID(), resp), nil
	case resp.StatusCode != http.StatusOK:
		return errResult(r.ID(), fmt.Sprintf("reddit returned status %d", resp.StatusCode)), nil
	}

	var about redditAbout
	if err := json.NewDecoder(resp.Body).Decode(&about); err != nil {
		return errResult(r.ID(), fmt.Sprintf("decode reddit response: %v", err)), nil
	}

	if about.Data.Name == "" || about.Data.IsSuspended {
		return notFound(r.ID(), fmt.Sprintf("no active Reddit user named %q", q.Text)), nil
	}

	content := fmt.Sprintf("username: %s\ntotal karma: %d", about.Data.Name, about.Data.TotalKarma)
	if desc := about.Data.SubredditObj.PublicDescription; desc != "" {
		content += "\nabout: " + desc
	}

	profile := fmt.Sprintf("%s/user/%s", r.baseURL, url.PathEscape(about.Data.Name))
	return found(r.ID(), profile, "Reddit profile found", content), nil
}
