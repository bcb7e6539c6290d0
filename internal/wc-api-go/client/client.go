package client // import "WooWithFeed/internal/wc-api-go/client"

import (
	"net/http"
	"net/url"
	"time"

	"WooWithFeed/internal/wc-api-go/net"
	"WooWithFeed/internal/wc-api-go/options"
	"WooWithFeed/internal/wc-api-go/request"
	wcurl "WooWithFeed/internal/wc-api-go/url"
)

// Client is upper level class which delegate all work to Requester
type Client struct {
	sender Sender
}

// Get Method loads data from Endpoint with specified parameters
func (c *Client) Get(endpoint string, parameters url.Values) (*http.Response, error) {
	return c.sender.Send(request.Request{
		Method:   "GET",
		Endpoint: endpoint,
		Values:   parameters,
	})
}

// Post Method usually creates new instances
func (c *Client) Post(endpoint string, parameters url.Values, body interface{}) (*http.Response, error) {
	return c.sender.Send(request.Request{
		Method:   "POST",
		Endpoint: endpoint,
		Values:   parameters,
		Body:     body,
	})
}

// Put Method usually update existing instances
func (c *Client) Put(endpoint string, body interface{}) (*http.Response, error) {
	return c.sender.Send(request.Request{
		Method:   "PUT",
		Endpoint: endpoint,
		Body:     body,
	})
}

// Delete Method usually removes existing instances
func (c *Client) Delete(endpoint string, parameters url.Values) (*http.Response, error) {
	return c.sender.Send(request.Request{
		Method:   "DELETE",
		Endpoint: endpoint,
		Values:   parameters,
	})
}

// Factory creates fully wired Clients
type Factory struct{}

// NewClient builds a Client for the given endpoint options
func (f *Factory) NewClient(o options.Basic) Client {
	builder := &wcurl.BasicURLBuilder{Options: o}

	sender := &net.Sender{}
	sender.SetOptions(o)
	sender.SetURLBuilder(builder)
	sender.SetHTTPClient(&http.Client{Timeout: 30 * time.Second})

	return Client{sender: sender}
}
