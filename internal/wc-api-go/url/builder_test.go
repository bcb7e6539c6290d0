package url

import (
	"net/url"
	"testing"

	"WooWithFeed/internal/wc-api-go/options"
	"WooWithFeed/internal/wc-api-go/request"

	"github.com/stretchr/testify/assert"
)

func TestGetURL(t *testing.T) {
	Assert := assert.New(t)

	builder := &BasicURLBuilder{Options: options.Basic{
		URL:    "https://shop.example.com/",
		Key:    "ck_test",
		Secret: "cs_test",
		Options: options.Advanced{
			WPAPI:       true,
			WPAPIPrefix: "/wp-json/",
			Version:     "wc/v3",
		},
	}}

	URL := builder.GetURL(request.Request{Method: "GET", Endpoint: "products/batch"})
	Assert.Equal("https://shop.example.com/wp-json/wc/v3/products/batch", URL)
}

func TestGetURLQueryStringAuth(t *testing.T) {
	Assert := assert.New(t)

	builder := &BasicURLBuilder{Options: options.Basic{
		URL:    "https://shop.example.com",
		Key:    "ck_test",
		Secret: "cs_test",
		Options: options.Advanced{
			WPAPI:           true,
			Version:         "wc/v3",
			QueryStringAuth: true,
		},
	}}

	values := url.Values{}
	values.Set("sku", "AB-100")
	raw := builder.GetURL(request.Request{Method: "GET", Endpoint: "products", Values: values})

	parsed, err := url.Parse(raw)
	Assert.NoError(err)
	Assert.Equal("/wp-json/wc/v3/products", parsed.Path)
	Assert.Equal("AB-100", parsed.Query().Get("sku"))
	Assert.Equal("ck_test", parsed.Query().Get("consumer_key"))
	Assert.Equal("cs_test", parsed.Query().Get("consumer_secret"))
}
