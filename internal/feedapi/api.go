package feedapi

import (
	"WooWithFeed/internal/feedapi/models"
	"WooWithFeed/pkg/logging"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/go-querystring/query"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// the call gives up after retryCount+1 attempts
const retryCount = 2

var retryWaitTime = 500 * time.Millisecond
var retryMaxWaitTime = 10 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type FEEDAPI interface {
	ProductListAll() ([]*models.Product, error)
}

// ListParams is the query string of the feed endpoint.
type ListParams struct {
	Currency string `url:"currency,omitempty"`
	Lang     string `url:"lang,omitempty"`
}

var feedapiGlobal *feedapi

type feedapi struct {
	url    string
	token  string
	params ListParams
	client *resty.Client
}

// ProductListAll pulls the complete feed snapshot. Any failure here is fatal
// for the reconciliation run: the diff only makes sense against a full feed.
func (f *feedapi) ProductListAll() ([]*models.Product, error) {

	logger := logging.GetLogger()
	logger.Println("ProductListAll:>Start")
	defer logger.Println("ProductListAll:>End")

	values, err := query.Values(f.params)
	if err != nil {
		return nil, errors.Wrap(err, "failed query.Values()")
	}

	r, err := f.client.R().
		SetAuthToken(f.token).
		SetQueryParamsFromValues(values).
		Get(f.url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed feed request, url:%s", f.url)
	}
	if r.StatusCode() != http.StatusOK {
		return nil, errors.Errorf("feed request returned status %d, url:%s, body:%s",
			r.StatusCode(), f.url, string(r.Body()))
	}

	var products []*models.Product
	err = json.Unmarshal(r.Body(), &products)
	if err != nil {
		// decode failures are terminal, the response is not retried
		return nil, errors.Wrap(err, "failed json.Unmarshal() of feed body")
	}

	logger.Infof("feed loaded, records: %d", len(products))
	return products, nil
}

func NewAPI(url, token string, params ListParams) FEEDAPI {

	client := resty.New().
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWaitTime).
		SetRetryMaxWaitTime(retryMaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})

	feedapiGlobal = &feedapi{
		url:    url,
		token:  token,
		params: params,
		client: client,
	}

	return feedapiGlobal
}

func GetAPI() FEEDAPI {
	return feedapiGlobal
}
