package client

import (
	"io"
	"net/http"
	"strings"

	"WooWithFeed/internal/wc-api-go/request"
)

// SenderMock records requests and answers each one with a canned body.
type SenderMock struct {
	statusCode int
	body       string
	requests   []request.Request
}

// Send ...
func (s *SenderMock) Send(req request.Request) (*http.Response, error) {
	s.requests = append(s.requests, req)
	statusCode := s.statusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     http.Header{},
	}, nil
}
