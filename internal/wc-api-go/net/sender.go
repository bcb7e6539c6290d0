package net // import "WooWithFeed/internal/wc-api-go/net"

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"WooWithFeed/internal/wc-api-go/options"
	"WooWithFeed/internal/wc-api-go/request"
	"WooWithFeed/pkg/logging"
)

// the sender gives up after maxAttempts tries
const maxAttempts = 3

var backoffBase = 500 * time.Millisecond

// Client interface over http.Client for mocking
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// URLBuilder interface
type URLBuilder interface {
	GetURL(req request.Request) string
}

// Sender provides HTTP Requests to the WooCommerce API with bounded retries
// and exponential backoff on transient failures.
type Sender struct {
	options    options.Basic
	urlBuilder URLBuilder
	httpClient Client
}

// Send method sends requests to WooCommerce API. Network errors, HTTP 429 and
// HTTP 5xx are retried with exponential backoff; every other status is
// returned to the caller as-is on the first attempt.
func (s *Sender) Send(req request.Request) (*http.Response, error) {

	logger := logging.GetLogger()

	URL := s.urlBuilder.GetURL(req)

	var reqBody []byte
	if req.Method == "POST" || req.Method == "PUT" {
		var err error
		reqBody, err = json.Marshal(req.Body)
		if err != nil {
			reqBody = nil
		}
	}

	var resp *http.Response
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		httpRequest, reqErr := http.NewRequest(req.Method, URL, bytes.NewReader(reqBody))
		if reqErr != nil {
			return nil, reqErr
		}
		if !s.options.Options.QueryStringAuth {
			httpRequest.SetBasicAuth(s.options.Key, s.options.Secret)
		}
		httpRequest.Header.Set("Content-Type", "application/json")

		resp, err = s.httpClient.Do(httpRequest)
		if !retryable(resp, err) {
			return resp, err
		}

		if attempt == maxAttempts {
			break
		}

		wait := backoffBase << (attempt - 1)
		if err != nil {
			logger.Errorf("request %s %s failed (attempt %d/%d): %v, retry in %s", req.Method, req.Endpoint, attempt, maxAttempts, err, wait)
		} else {
			logger.Errorf("request %s %s returned %d (attempt %d/%d), retry in %s", req.Method, req.Endpoint, resp.StatusCode, attempt, maxAttempts, wait)
			resp.Body.Close()
		}
		time.Sleep(wait)
	}

	return resp, err
}

func retryable(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}

// SetOptions ...
func (s *Sender) SetOptions(o options.Basic) {
	s.options = o
}

// SetURLBuilder ...
func (s *Sender) SetURLBuilder(urlBuilder URLBuilder) {
	s.urlBuilder = urlBuilder
}

// SetHTTPClient ...
func (s *Sender) SetHTTPClient(c Client) {
	s.httpClient = c
}
