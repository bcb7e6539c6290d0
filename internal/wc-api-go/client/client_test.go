package client

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"

	"WooWithFeed/internal/wc-api-go/request"

	"github.com/stretchr/testify/assert"
)

func TestRequest(t *testing.T) {
	parameters := url.Values{}
	parameters.Set("foo", "bar")

	methods := []string{"GET", "POST", "PUT", "DELETE"}

	Assert := assert.New(t)

	for _, method := range methods {
		t.Logf("Test method: %s", method)
		req := request.Request{
			Method:   method,
			Endpoint: "products",
			Values:   parameters,
		}

		sender := &SenderMock{body: "Hello " + method + "!"}
		client := Client{
			sender: sender,
		}

		r, _ := executeRequest(client, &req)

		body, _ := io.ReadAll(r.Body)
		Assert.Equal("Hello "+method+"!", string(body))
		Assert.Equal(method, sender.requests[0].Method)

		err := r.Body.Close()
		if err != nil {
			t.Errorf("Failed to close body of response")
		}
	}
}

func executeRequest(c Client, r *request.Request) (*http.Response, error) {
	switch r.Method {
	case "GET":
		return c.Get(r.Endpoint, r.Values)
	case "POST":
		return c.Post(r.Endpoint, r.Values, r.Body)
	case "PUT":
		return c.Put(r.Endpoint, r.Body)
	case "DELETE":
		return c.Delete(r.Endpoint, r.Values)
	default:
		return nil, errors.New("incorrect request method")
	}
}
