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

const hunterBase = "https://api.hunter.io"

// Hunter verifies email deliverability through the hunter.io API. It only
// handles email queries and requires an API key.
type Hunter struct {
	client  *httpclient.Client
	apiKey  string
	baseURL string
}

var _ search.Adapter = (*Hunter)(nil)

// NewHunter creates the Hunter adapter. Without a key every search reports
// an error result rather than failing at construction, so hosts can still
// list the platform.
func NewHunter(client *httpclient.Client, apiKey string) *Hunter {
	return &Hunter{
		client:  client,
		apiKey:  apiKey,
		baseURL: hunterBase,
	}
}

func (h *Hunter) ID() string                      { return "hunter" }
func (h *Hunter) Name() string                    { return "Hunter" }
func (h *Hunter) CheckMethod() search.CheckMethod { return search.CheckAPI }

type hunterVerify struct {
	Data struct {
		Status string `json:"status"` // valid, invalid, accept_all, unknown
		Score  int    `json:"score"`
		Email  string `json:"email"`
	} `json:"data"`
	Errors []struct {
		Details string `json:"details"`
	} `json:"errors"`
}

func (h *Hunter) Search(ctx context.Context, q search.Query) (search.Result, error) {
	if q.Type != search.TypeEmail {
		return notFound(h.ID(), "Hunter only verifies email addresses"), nil
	}
	if h.apiKey == "" {
		return errResult(h.ID(), "hunter API key not configured"), nil
	}

	endpoint := fmt.Sprintf("%s/v2/email-verifier?email=%s&api_key=%s",
		h.baseURL, url.QueryEscape(q.Text), url.QueryEscape(h.apiKey))
	resp, err := h.client.Get(ctx, endpoint, map[string]string{"Accept": "application/json"})
	if err != nil {
		return errResult(h.ID(), fmt.Sprintf("hunter request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return rateLimited(h.ID(), resp), nil
	case resp.StatusCode == http.StatusUnauthorized:
		return errResult(h.ID(), "hunter rejected the API key"), nil
	case resp.StatusCode != http.StatusOK:
		return errResult(h.ID(), fmt.Sprintf("hunter returned status %d", resp.StatusCode)), nil
	}

	var out hunterVerify
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return errResult(h.ID(), fmt.Sprintf("decode hunter response: %v", err)), nil
	}
	if len(out.Errors) > 0 {
		return errResult(h.ID(), fmt.Sprintf("hunter error: %s", out.Errors[0].Details)), nil
	}

	switch out.Data.Status {
	case "valid", "accept_all":
		content := fmt.Sprintf("status: %s\nscore: %d", out.Data.Status, out.Data.Score)
		return found(h.ID(), "", fmt.Sprintf("email is deliverable (%s)", out.Data.Status), content), nil
	case "invalid":
		return notFound(h.ID(), "email address is not deliverable"), nil
	default:
		return notFound(h.ID(), fmt.Sprintf("email deliverability unknown (status: %s)", out.Data.Status)), nil
	}
}
