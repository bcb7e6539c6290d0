package wooapi

import (
	"WooWithFeed/internal/wc-api-go/client"
	"WooWithFeed/internal/wc-api-go/options"
	"WooWithFeed/internal/wooapi/models"
	optionsWoo "WooWithFeed/internal/wooapi/options"
	"WooWithFeed/pkg/logging"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

type WOOAPI interface {
	ProductList(opts ...optionsWoo.Option) ([]*models.Product, error)
	ProductListAll() ([]*models.Product, error)
	ProductBatch(req *models.ProductBatchRequest) (*models.ProductBatchResponse, error)
	ProductDel(ID int64, opts ...optionsWoo.Option) error

	ProductVariationList(productID int64, opts ...optionsWoo.Option) ([]*models.Variation, error)
	ProductVariationListAll(productID int64) ([]*models.Variation, error)
	ProductVariationBatch(productID int64, req *models.VariationBatchRequest) (*models.VariationBatchResponse, error)

	ProductCategoryList(opts ...optionsWoo.Option) ([]*models.ProductCategory, error)
	ProductCategoryListAll() ([]*models.ProductCategory, error)
	ProductCategoryAdd(c *models.ProductCategory) (*models.ProductCategory, int64, error)
}

var wooapiGlobal *wooapi

type wooapi struct {
	url     string
	key     string
	secret  string
	api     client.Client
	limiter *rate.Limiter
}

func (w *wooapi) wait() {
	err := w.limiter.Wait(context.Background())
	if err != nil {
		logging.GetLogger().Errorf("failed limiter.Wait(); %v", err)
	}
}

func optionValues(opts []optionsWoo.Option) url.Values {
	params := url.Values{}
	Option := new(optionsWoo.OptionStruct)
	for _, field := range opts {
		field(Option)
		params.Add(Option.Key, Option.Value)
	}
	return params
}

// decode reads the response body into dest, turning any unexpected status
// into an *models.ErrorWoo.
func decode(r *http.Response, wantStatus int, dest interface{}) error {

	logger := logging.GetLogger()

	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Errorf("failed Body.Close()")
		}
	}(r.Body)

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.Wrap(err, "failed io.ReadAll(r.Body)")
	}
	logger.Debug(string(bodyBytes))

	if r.StatusCode != wantStatus {
		var ErrorWoo models.ErrorWoo
		err := json.Unmarshal(bodyBytes, &ErrorWoo)
		if err != nil {
			return errors.Wrapf(err, "failed json.Unmarshal() of error body, status: %d", r.StatusCode)
		}
		return &ErrorWoo
	}

	if dest == nil {
		return nil
	}
	err = json.Unmarshal(bodyBytes, dest)
	if err != nil {
		return errors.Wrap(err, "failed json.Unmarshal()")
	}
	return nil
}

func (w *wooapi) ProductList(opts ...optionsWoo.Option) ([]*models.Product, error) {
	logger := logging.GetLogger()
	logger.Println("ProductList:>Start")
	defer logger.Println("ProductList:>End")
	w.wait()

	endpoint := "products"
	logger.Debugf("Endpoint: %s", endpoint)

	r, err := w.api.Get(endpoint, optionValues(opts))
	if err != nil {
		return nil, errors.Wrapf(err, "failed request to Woo Api, endpoint:%s", endpoint)
	}

	var products []*models.Product
	err = decode(r, http.StatusOK, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (w *wooapi) ProductListAll() ([]*models.Product, error) {

	logger := logging.GetLogger()
	logger.Println("ProductListAll:>Start")
	defer logger.Println("ProductListAll:>End")

	var products []*models.Product
	var i = 1
	perPage := 100
	for {
		productsTemp, err := w.ProductList(optionsWoo.PerPage(perPage), optionsWoo.Page(i))
		if err != nil {
			return nil, errors.Wrapf(err, "failed ProductList, PerPage:%d, Page:%d", perPage, i)
		}

		if len(productsTemp) == 0 {
			break
		}

		products = append(products, productsTemp...)
		logger.Debugf("Page load:%d", i)
		i++
	}

	return products, nil
}

func (w *wooapi) ProductBatch(req *models.ProductBatchRequest) (*models.ProductBatchResponse, error) {
	logger := logging.GetLogger()
	logger.Println("ProductBatch:>Start")
	defer logger.Println("ProductBatch:>End")
	w.wait()

	if req.Empty() {
		return &models.ProductBatchResponse{}, nil
	}

	endpoint := "products/batch"
	logger.Debugf("Endpoint: %s, create:%d, update:%d", endpoint, len(req.Create), len(req.Update))

	r, err := w.api.Post(endpoint, nil, req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed request to Woo Api, endpoint:%s", endpoint)
	}

	var resp models.ProductBatchResponse
	err = decode(r, http.StatusOK, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (w *wooapi) ProductDel(ID int64, opts ...optionsWoo.Option) error {
	logger := logging.GetLogger()
	logger.Println("ProductDel:>Start")
	defer logger.Println("ProductDel:>End")
	w.wait()

	endpoint := fmt.Sprintf("products/%d", ID)
	logger.Debugf("Endpoint: %s", endpoint)

	r, err := w.api.Delete(endpoint, optionValues(opts))
	if err != nil {
		return errors.Wrapf(err, "failed request to Woo Api, endpoint:%s", endpoint)
	}

	var product models.Product
	err = decode(r, http.StatusOK, &product)
	if err != nil {
		var ErrorWoo *models.ErrorWoo
		if errors.As(err, &ErrorWoo) && ErrorWoo.Code == "woocommerce_rest_already_trashed" {
			return nil
		}
		return err
	}
	return nil
}

func (w *wooapi) ProductVariationList(productID int64, opts ...optionsWoo.Option) ([]*models.Variation, error) {
	logger := logging.GetLogger()
	logger.Println("ProductVariationList:>Start")
	defer logger.Println("ProductVariationList:>End")
	w.wait()

	endpoint := fmt.Sprintf("products/%d/variations", productID)
	logger.Debugf("Endpoint: %s", endpoint)

	r, err := w.api.Get(endpoint, optionValues(opts))
	if err != nil {
		return nil, errors.Wrapf(err, "failed request to Woo Api, endpoint:%s", endpoint)
	}

	var variations []*models.Variation
	err = decode(r, http.StatusOK, &variations)
	if err != nil {
		return nil, err
	}
	return variations, nil
}

func (w *wooapi) ProductVariationListAll(productID int64) ([]*models.Variation, error) {

	logger := logging.GetLogger()
	logger.Println("ProductVariationListAll:>Start")
	defer logger.Println("ProductVariationListAll:>End")

	var variations []*models.Variation
	var i = 1
	perPage := 100
	for {
		variationsTemp, err := w.ProductVariationList(productID, optionsWoo.PerPage(perPage), optionsWoo.Page(i))
		if err != nil {
			return nil, errors.Wrapf(err, "failed ProductVariationList, productID:%d, PerPage:%d, Page:%d", productID, perPage, i)
		}

		if len(variationsTemp) == 0 {
			break
		}

		variations = append(variations, variationsTemp...)
		logger.Debugf("Page load:%d", i)
		i++
	}

	return variations, nil
}

func (w *wooapi) ProductVariationBatch(productID int64, req *models.VariationBatchRequest) (*models.VariationBatchResponse, error) {
	logger := logging.GetLogger()
	logger.Println("ProductVariationBatch:>Start")
	defer logger.Println("ProductVariationBatch:>End")
	w.wait()

	if req.Empty() {
		return &models.VariationBatchResponse{}, nil
	}

	endpoint := fmt.Sprintf("products/%d/variations/batch", productID)
	logger.Debugf("Endpoint: %s, create:%d, update:%d", endpoint, len(req.Create), len(req.Update))

	r, err := w.api.Post(endpoint, nil, req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed request to Woo Api, endpoint:%s", endpoint)
	}

	var resp models.VariationBatchResponse
	err = decode(r, http.StatusOK, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (w *wooapi) ProductCategoryList(opts ...optionsWoo.Option) ([]*models.ProductCategory, error) {
	logger := logging.GetLogger()
	logger.Println("ProductCategoryList:>Start")
	defer logger.Println("ProductCategoryList:>End")
	w.wait()

	endpoint := "products/categories"
	logger.Debugf("Endpoint: %s", endpoint)

	r, err := w.api.Get(endpoint, optionValues(opts))
	if err != nil {
		return nil, errors.Wrapf(err, "failed request to Woo Api, endpoint:%s", endpoint)
	}

	var categories []*models.ProductCategory
	err = decode(r, http.StatusOK, &categories)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (w *wooapi) ProductCategoryListAll() ([]*models.ProductCategory, error) {

	logger := logging.GetLogger()
	logger.Println("ProductCategoryListAll:>Start")
	defer logger.Println("ProductCategoryListAll:>End")

	var categories []*models.ProductCategory
	var i = 1
	perPage := 100
	for {
		categoriesTemp, err := w.ProductCategoryList(optionsWoo.PerPage(perPage), optionsWoo.Page(i))
		if err != nil {
			return nil, errors.Wrapf(err, "failed ProductCategoryList, PerPage:%d, Page:%d", perPage, i)
		}

		if len(categoriesTemp) == 0 {
			break
		}

		categories = append(categories, categoriesTemp...)
		logger.Debugf("Page load:%d", i)
		i++
	}

	return categories, nil
}

// ProductCategoryAdd creates a category. When the slug already exists the Woo
// error carries the existing term id; it is returned as the second value so
// the caller can reuse it instead of treating the call as failed.
func (w *wooapi) ProductCategoryAdd(c *models.ProductCategory) (*models.ProductCategory, int64, error) {
	logger := logging.GetLogger()
	logger.Println("ProductCategoryAdd:>Start")
	defer logger.Println("ProductCategoryAdd:>End")
	w.wait()

	if c.Name == "" {
		return nil, 0, errors.New("category name is empty")
	}

	endpoint := "products/categories"
	logger.Debugf("Endpoint: %s", endpoint)

	r, err := w.api.Post(endpoint, nil, c)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "failed request to Woo Api, endpoint:%s", endpoint)
	}

	var category models.ProductCategory
	err = decode(r, http.StatusCreated, &category)
	if err != nil {
		var ErrorWoo *models.ErrorWoo
		if errors.As(err, &ErrorWoo) && ErrorWoo.Code == models.ERROR_CODE_TERM_EXISTS {
			return nil, ErrorWoo.Data.ResourceId, nil
		}
		return nil, 0, err
	}
	return &category, 0, nil
}

func NewAPI(url, key, secret string, rps int) WOOAPI {

	factory := client.Factory{}

	api := factory.NewClient(options.Basic{
		URL:    url,
		Key:    key,
		Secret: secret,
		Options: options.Advanced{
			WPAPI:       true,
			WPAPIPrefix: "/wp-json/",
			Version:     "wc/v3",
		},
	})

	if rps <= 0 {
		rps = 1
	}

	wooapiGlobal = &wooapi{
		url:     url,
		key:     key,
		secret:  secret,
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}

	return wooapiGlobal
}

func GetAPI() WOOAPI {
	return wooapiGlobal
}
