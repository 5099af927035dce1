package platform

import (
	"context"
	"fmt"
	"net/url"

	"github.com/FranksOps/dossier/internal/search"
)

// redirectDescription is attached to every redirect-style result. "Found"
// from these adapters only means a deep link was constructed, never that
// presence was verified.
const redirectDescription = "search link constructed (manual verification required)"

// Google builds a quoted Google search link. Google offers no account lookup
// API and scraping its results page is against its terms, so this adapter is
// redirect-only.
type Google struct{}

var _ search.Adapter = (*Google)(nil)

// NewGoogle creates the Google redirect adapter.
func NewGoogle() *Google { return &Google{} }

func (g *Google) ID() string                      { return "google" }
func (g *Google) Name() string                    { return "Google" }
func (g *Google) CheckMethod() search.CheckMethod { return search.CheckRedirect }

func (g *Google) Search(ctx context.Context, q search.Query) (search.Result, error) {
	link := fmt.Sprintf("https://www.google.com/search?q=%s",
		url.QueryEscape(fmt.Sprintf("%q", q.Text)))
	return found(g.ID(), link, redirectDescription, ""), nil
}

// Twitter builds profile or search deep links for x.com. The public search
// API tiers do not cover account lookups, so this adapter is redirect-only.
type Twitter struct{}

var _ search.Adapter = (*Twitter)(nil)

// NewTwitter creates the Twitter redirect adapter.
func NewTwitter() *Twitter { return &Twitter{} }

func (t *Twitter) ID() string                      { return "twitter" }
func (t *Twitter) Name() string                    { return "Twitter/X" }
func (t *Twitter) CheckMethod() search.CheckMethod { return search.CheckRedirect }

func (t *Twitter) Search(ctx context.Context, q search.Query) (search.Result, error) {
	var link string
	if q.Type == search.TypeUsername {
		link = fmt.Sprintf("https://x.com/%s", url.PathEscape(q.Text))
	} else {
		link = fmt.Sprintf("https://x.com/search?q=%s", url.QueryEscape(fmt.Sprintf("%q", q.Text)))
	}
	return found(t.ID(), link, redirectDescription, ""), nil
}
