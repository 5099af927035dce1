package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/FranksOps/dossier/internal/search"
	"github.com/FranksOps/dossier/pkg/httpclient"
)

const githubAPIBase = "https://api.github.com"

// GitHub looks identities up against the GitHub REST API. Usernames resolve
// to a direct user lookup; emails and names go through the user search
// endpoint. An optional token raises the unauthenticated rate limits.
type GitHub struct {
	client  *httpclient.Client
	token   string
	baseURL string
}

var _ search.Adapter = (*GitHub)(nil)

// NewGitHub creates the GitHub adapter. token may be empty.
func NewGitHub(client *httpclient.Client, token string) *GitHub {
	return &GitHub{
		client:  client,
		token:   token,
		baseURL: githubAPIBase,
	}
}

func (g *GitHub) ID() string                      { return "github" }
func (g *GitHub) Name() string                    { return "GitHub" }
func (g *GitHub) CheckMethod() search.CheckMethod { return search.CheckAPI }

func (g *GitHub) headers() map[string]string {
	h := map[string]string{
		"Accept": "application/vnd.github+json",
	}
	if g.token != "" {
		h["Authorization"] = "Bearer " + g.token
	}
	return h
}

func (g *GitHub) Search(ctx context.Context, q search.Query) (search.Result, error) {
	switch q.Type {
	case search.TypeUsername:
		return g.lookupUser(ctx, q.Text)
	case search.TypeEmail, search.TypeName:
		return g.searchUsers(ctx, q)
	default:
		return notFound(g.ID(), "GitHub does not support phone lookups"), nil
	}
}

type githubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	HTMLURL     string `json:"html_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

func (g *GitHub) lookupUser(ctx context.Context, username string) (search.Result, error) {
	endpoint := fmt.Sprintf("%s/users/%s", g.baseURL, url.PathEscape(username))
	resp, err := g.client.Get(ctx, endpoint, g.headers())
	if err != nil {
		return errResult(g.ID(), fmt.Sprintf("github request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return notFound(g.ID(), fmt.Sprintf("no GitHub user named %q", username)), nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return rateLimited(g.ID(), resp), nil
	case resp.StatusCode != http.StatusOK:
		return errResult(g.ID(), fmt.Sprintf("github returned status %d", resp.StatusCode)), nil
	}

	var user githubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return errResult(g.ID(), fmt.Sprintf("decode github response: %v", err)), nil
	}

	content := fmt.Sprintf("login: %s", user.Login)
	if user.Name != "" {
		content += fmt.Sprintf("\nname: %s", user.Name)
	}
	if user.Bio != "" {
		content += fmt.Sprintf("\nbio: %s", user.Bio)
	}
	content += fmt.Sprintf("\npublic repos: %d, followers: %d", user.PublicRepos, user.Followers)

	return found(g.ID(), user.HTMLURL, "GitHub profile found", content), nil
}

type githubSearch struct {
	TotalCount int `json:"total_count"`
	Items      []struct {
		Login   string `json:"login"`
		HTMLURL string `json:"html_url"`
	} `json:"items"`
}

func (g *GitHub) searchUsers(ctx context.Context, q search.Query) (search.Result, error) {
	term := q.Text
	if q.Type == search.TypeEmail {
		term += " in:email"
	} else {
		term += " in:name"
	}

	endpoint := fmt.Sprintf("%s/search/users?q=%s&per_page=5", g.baseURL, url.QueryEscape(term))
	resp, err := g.client.Get(ctx, endpoint, g.headers())
	if err != nil {
		return errResult(g.ID(), fmt.Sprintf("github request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return rateLimited(g.ID(), resp), nil
	case resp.StatusCode != http.StatusOK:
		return errResult(g.ID(), fmt.Sprintf("github returned status %d", resp.StatusCode)), nil
	}

	var out githubSearch
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return errResult(g.ID(), fmt.Sprintf("decode github response: %v", err)), nil
	}

	if out.TotalCount == 0 {
		return notFound(g.ID(), fmt.Sprintf("no GitHub users matching %q", q.Text)), nil
	}
	if len(out.Items) == 0 {
		// GitHub can report a nonzero total_count with an empty items page
		// (incomplete_results); surface the count without a profile link.
		return found(g.ID(), "",
			fmt.Sprintf("%d GitHub users match", out.TotalCount),
			fmt.Sprintf("%d matching users", out.TotalCount)), nil
	}

	first := out.Items[0]
	content := fmt.Sprintf("%d matching users, first: %s", out.TotalCount, first.Login)
	return found(g.ID(), first.HTMLURL,
		fmt.Sprintf("%d GitHub users match", out.TotalCount), content), nil
}
