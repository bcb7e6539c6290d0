package client // import "WooWithFeed/internal/wc-api-go/client"

import (
	"net/http"

	"WooWithFeed/internal/wc-api-go/request"
)

// Sender interface
type Sender interface {
	Send(req request.Request) (resp *http.Response, err error)
}
