package url // import "WooWithFeed/internal/wc-api-go/url"

import (
	"net/url"
	"strings"

	"WooWithFeed/internal/wc-api-go/auth"
	"WooWithFeed/internal/wc-api-go/options"
	"WooWithFeed/internal/wc-api-go/request"
)

// BasicURLBuilder assembles the full REST URL for a request, query-string
// credentials included when the options ask for them.
type BasicURLBuilder struct {
	Options options.Basic
	Auth    auth.BasicAuthentication
}

// GetURL builds <base><prefix><version>/<endpoint>?<query>
func (b *BasicURLBuilder) GetURL(req request.Request) string {
	base := strings.TrimRight(b.Options.URL, "/")
	prefix := b.Options.Prefix()
	version := strings.Trim(b.Options.Options.Version, "/")
	endpoint := strings.TrimLeft(req.Endpoint, "/")

	URL := base + prefix + version + "/" + endpoint

	values := url.Values{}
	for key, vals := range req.Values {
		for _, v := range vals {
			values.Add(key, v)
		}
	}
	values = b.Auth.GetEnrichedQuery(values, b.Options)

	if encoded := values.Encode(); encoded != "" {
		URL += "?" + encoded
	}
	return URL
}
