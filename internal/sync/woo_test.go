package sync

import (
	"WooWithFeed/internal/database"
	"WooWithFeed/internal/database/model/product"
	"WooWithFeed/internal/database/model/synclog"
	"WooWithFeed/internal/database/model/variation"
	"WooWithFeed/internal/database/model/wcmap"
	"WooWithFeed/internal/imagemap"
	"WooWithFeed/internal/wooapi/models"
	optionsWoo "WooWithFeed/internal/wooapi/options"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wooMock answers like a healthy remote: creates get sequential ids starting
// at nextID, updates echo the submitted id. SKUs listed in failSKUs come back
// with a per-item error instead.
type wooMock struct {
	nextID             int64
	failSKUs           map[string]bool
	remoteVariations   map[int64][]*models.Variation
	categories         []*models.ProductCategory
	categoriesAdded    int
	productBatches     []*models.ProductBatchRequest
	variationBatches   []*models.VariationBatchRequest
	categoryListCalls  int
	variationBatchErrs int // that many variation batch calls fail outright
}

func newWooMock() *wooMock {
	return &wooMock{
		nextID:           9000,
		failSKUs:         map[string]bool{},
		remoteVariations: map[int64][]*models.Variation{},
	}
}

func (m *wooMock) ProductList(opts ...optionsWoo.Option) ([]*models.Product, error) {
	return nil, nil
}

func (m *wooMock) ProductListAll() ([]*models.Product, error) {
	return nil, nil
}

func (m *wooMock) ProductBatch(req *models.ProductBatchRequest) (*models.ProductBatchResponse, error) {
	m.productBatches = append(m.productBatches, req)
	resp := &models.ProductBatchResponse{}
	for _, p := range req.Create {
		resp.Create = append(resp.Create, m.result(p.Sku, 0))
	}
	for _, p := range req.Update {
		resp.Update = append(resp.Update, m.result(p.Sku, p.ID))
	}
	return resp, nil
}

func (m *wooMock) ProductDel(ID int64, opts ...optionsWoo.Option) error {
	return nil
}

func (m *wooMock) ProductVariationList(productID int64, opts ...optionsWoo.Option) ([]*models.Variation, error) {
	return m.remoteVariations[productID], nil
}

func (m *wooMock) ProductVariationListAll(productID int64) ([]*models.Variation, error) {
	return m.remoteVariations[productID], nil
}

func (m *wooMock) ProductVariationBatch(productID int64, req *models.VariationBatchRequest) (*models.VariationBatchResponse, error) {
	if m.variationBatchErrs > 0 {
		m.variationBatchErrs--
		return nil, assert.AnError
	}
	m.variationBatches = append(m.variationBatches, req)
	resp := &models.VariationBatchResponse{}
	for _, v := range req.Create {
		r := m.result(v.Sku, 0)
		resp.Create = append(resp.Create, &models.VariationBatchResult{ID: r.ID, Sku: r.Sku, Error: r.Error})
	}
	for _, v := range req.Update {
		r := m.result(v.Sku, v.ID)
		resp.Update = append(resp.Update, &models.VariationBatchResult{ID: r.ID, Sku: r.Sku, Error: r.Error})
	}
	return resp, nil
}

func (m *wooMock) ProductCategoryList(opts ...optionsWoo.Option) ([]*models.ProductCategory, error) {
	m.categoryListCalls++
	return m.categories, nil
}

func (m *wooMock) ProductCategoryListAll() ([]*models.ProductCategory, error) {
	return m.categories, nil
}

func (m *wooMock) ProductCategoryAdd(c *models.ProductCategory) (*models.ProductCategory, int64, error) {
	m.categoriesAdded++
	m.nextID++
	return &models.ProductCategory{ID: m.nextID, Name: c.Name, Slug: c.Slug}, 0, nil
}

func (m *wooMock) result(sku string, id int64) *models.ProductBatchResult {
	if m.failSKUs[sku] {
		return &models.ProductBatchResult{Sku: sku, Error: &models.BatchError{Code: "woocommerce_rest_invalid", Message: "rejected"}}
	}
	if id == 0 {
		m.nextID++
		id = m.nextID
	}
	return &models.ProductBatchResult{ID: id, Sku: sku}
}

func seedPendingProduct(t *testing.T, db *sqlx.DB, sku, brand string) *database.Product {
	t.Helper()
	p := &database.Product{
		SKU:         sku,
		Name:        "Product " + sku,
		Brand:       brand,
		Status:      database.PRODUCT_STATUS_ACTIVE,
		Source:      database.PRODUCT_SOURCE_FEED,
		SyncPending: 1,
	}
	require.NoError(t, product.Insert(db, p))
	require.NoError(t, variation.Insert(db, &database.ProductVariation{
		ParentSKU: sku, SKU: sku + "-42", SizeEU: "42", SizeUS: "8.5",
		StockQuantity: 3, RetailPrice: 150, Active: 1,
	}))
	return p
}

func TestWooEngineCreatesUnmappedProduct(t *testing.T) {
	db := newTestDB(t)
	p := seedPendingProduct(t, db, "AB-100", "Acme")
	mock := newWooMock()

	engine := NewWooEngine(db, mock, 100, 100, "", imagemap.Map{}, false)
	result := engine.Run()
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Stats.ProductsCreated)
	assert.Equal(t, 1, result.Stats.VariationsCreated)
	assert.Equal(t, 0, result.Stats.Errors)

	require.Len(t, mock.productBatches, 1)
	require.Len(t, mock.productBatches[0].Create, 1)
	assert.Empty(t, mock.productBatches[0].Update)
	payload := mock.productBatches[0].Create[0]
	assert.Equal(t, models.PRODUCT_TYPE_VARIABLE, payload.Type)
	assert.Equal(t, models.PRODUCT_STATUS_PUBLISH, payload.Status)

	mapping, err := wcmap.ProductMapByProductID(db, p.ID)
	require.NoError(t, err)
	require.NotNil(t, mapping)
	assert.Greater(t, mapping.WcProductID, int64(0))

	stored, err := product.SelectBySKU(db, "AB-100")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.SyncPending)

	entries, err := synclog.SelectByEntity(db, "product", p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, database.SYNCLOG_TYPE_DB_TO_WOO, entries[0].Type)
}

func TestWooEngineUpdatesMappedProduct(t *testing.T) {
	db := newTestDB(t)
	p := seedPendingProduct(t, db, "AB-100", "Acme")
	require.NoError(t, wcmap.InsertProductMap(db, p.ID, 4242))
	mock := newWooMock()
	mock.remoteVariations[4242] = []*models.Variation{{ID: 777, Sku: "AB-100-42"}}

	v, err := variation.SelectBySKU(db, "AB-100-42")
	require.NoError(t, err)
	require.NoError(t, wcmap.UpsertVariationMap(db, v.ID, 777))

	engine := NewWooEngine(db, mock, 100, 100, "", imagemap.Map{}, false)
	result := engine.Run()
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Stats.ProductsUpdated)
	assert.Equal(t, 1, result.Stats.VariationsUpdated)
	assert.Equal(t, 0, result.Stats.MappingsHealed)

	require.Len(t, mock.productBatches, 1)
	assert.Empty(t, mock.productBatches[0].Create)
	require.Len(t, mock.productBatches[0].Update, 1)
	assert.Equal(t, int64(4242), mock.productBatches[0].Update[0].ID)

	require.Len(t, mock.variationBatches, 1)
	require.Len(t, mock.variationBatches[0].Update, 1)
	assert.Equal(t, int64(777), mock.variationBatches[0].Update[0].ID)
}

func TestWooEngineHealsUnmappedRemoteVariation(t *testing.T) {
	db := newTestDB(t)
	p := seedPendingProduct(t, db, "AB-100", "Acme")
	require.NoError(t, wcmap.InsertProductMap(db, p.ID, 4242))
	mock := newWooMock()
	// remote knows the SKU, the local mapping table does not: a prior run
	// died between the remote create and the mapping write
	mock.remoteVariations[4242] = []*models.Variation{{ID: 777, Sku: "AB-100-42"}}

	engine := NewWooEngine(db, mock, 100, 100, "", imagemap.Map{}, false)
	result := engine.Run()
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Stats.MappingsHealed)
	assert.Equal(t, 1, result.Stats.VariationsUpdated)
	assert.Equal(t, 0, result.Stats.VariationsCreated)

	require.Len(t, mock.variationBatches, 1)
	assert.Empty(t, mock.variationBatches[0].Create)

	v, err := variation.SelectBySKU(db, "AB-100-42")
	require.NoError(t, err)
	mapping, err := wcmap.VariationMapByVariationID(db, v.ID)
	require.NoError(t, err)
	require.NotNil(t, mapping)
	assert.Equal(t, int64(777), mapping.WcVariationID)
}

func TestWooEnginePerItemFailureDoesNotAbortRun(t *testing.T) {
	db := newTestDB(t)
	bad := seedPendingProduct(t, db, "BAD-1", "Acme")
	good := seedPendingProduct(t, db, "GOOD-1", "Acme")
	mock := newWooMock()
	mock.failSKUs["BAD-1"] = true

	engine := NewWooEngine(db, mock, 100, 100, "", imagemap.Map{}, false)
	result := engine.Run()
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Stats.ProductsCreated)
	assert.Equal(t, 1, result.Stats.Errors)

	// the failed item stays pending for the next run, the good one is done
	stored, err := product.SelectBySKU(db, "BAD-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.SyncPending)
	mapping, err := wcmap.ProductMapByProductID(db, bad.ID)
	require.NoError(t, err)
	assert.Nil(t, mapping)

	stored, err = product.SelectBySKU(db, "GOOD-1")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.SyncPending)
	mapping, err = wcmap.ProductMapByProductID(db, good.ID)
	require.NoError(t, err)
	require.NotNil(t, mapping)
}

func TestWooEngineBatchCeiling(t *testing.T) {
	db := newTestDB(t)
	for _, sku := range []string{"A-1", "A-2", "A-3"} {
		seedPendingProduct(t, db, sku, "Acme")
	}
	mock := newWooMock()

	engine := NewWooEngine(db, mock, 100, 2, "", imagemap.Map{}, false)
	result := engine.Run()
	require.True(t, result.Success)
	assert.Equal(t, 3, result.Stats.ProductsCreated)

	require.Len(t, mock.productBatches, 2)
	assert.Len(t, mock.productBatches[0].Create, 2)
	assert.Len(t, mock.productBatches[1].Create, 1)
}

func TestWooEngineCategoryResolvedOncePerBrand(t *testing.T) {
	db := newTestDB(t)
	seedPendingProduct(t, db, "A-1", "Acme")
	seedPendingProduct(t, db, "A-2", "Acme")
	mock := newWooMock()

	engine := NewWooEngine(db, mock, 100, 100, "", imagemap.Map{}, false)
	result := engine.Run()
	require.True(t, result.Success)

	assert.Equal(t, 1, mock.categoryListCalls)
	assert.Equal(t, 1, mock.categoriesAdded)
}

func TestWooEngineReusesExistingCategory(t *testing.T) {
	db := newTestDB(t)
	seedPendingProduct(t, db, "A-1", "Acme")
	mock := newWooMock()
	mock.categories = []*models.ProductCategory{{ID: 321, Name: "Acme", Slug: "acme"}}

	engine := NewWooEngine(db, mock, 100, 100, "", imagemap.Map{}, false)
	result := engine.Run()
	require.True(t, result.Success)

	assert.Equal(t, 0, mock.categoriesAdded)
	require.Len(t, mock.productBatches, 1)
	payload := mock.productBatches[0].Create[0]
	require.Len(t, payload.Categories, 1)
	assert.Equal(t, int64(321), payload.Categories[0].ID)
}

func TestWooEngineInactiveProductPushedAsDraftOutOfStock(t *testing.T) {
	db := newTestDB(t)
	p := seedPendingProduct(t, db, "AB-100", "Acme")
	p.Status = database.PRODUCT_STATUS_INACTIVE
	require.NoError(t, product.Update(db, p))
	require.NoError(t, variation.DeactivateByParentSKU(db, "AB-100"))
	require.NoError(t, wcmap.InsertProductMap(db, p.ID, 4242))
	mock := newWooMock()
	mock.remoteVariations[4242] = []*models.Variation{{ID: 777, Sku: "AB-100-42"}}

	engine := NewWooEngine(db, mock, 100, 100, "", imagemap.Map{}, false)
	result := engine.Run()
	require.True(t, result.Success)

	require.Len(t, mock.productBatches, 1)
	assert.Equal(t, models.PRODUCT_STATUS_DRAFT, mock.productBatches[0].Update[0].Status)

	require.Len(t, mock.variationBatches, 1)
	pushed := mock.variationBatches[0].Update[0]
	require.NotNil(t, pushed.StockQuantity)
	assert.Equal(t, 0, *pushed.StockQuantity)
	assert.Equal(t, models.STOCK_STATUS_OUTOFSTOCK, pushed.StockStatus)
}

func TestWooEngineVariationFailureResumesAsUpdate(t *testing.T) {
	db := newTestDB(t)
	p := seedPendingProduct(t, db, "AB-100", "Acme")
	mock := newWooMock()
	mock.variationBatchErrs = 1

	// first run: remote create confirmed, variation push dies in transit
	engine := NewWooEngine(db, mock, 100, 100, "", imagemap.Map{}, false)
	result := engine.Run()
	require.True(t, result.Success)
	assert.Equal(t, 0, result.Stats.ProductsCreated)
	assert.Equal(t, 1, result.Stats.Errors)

	// the mapping must already be durable and the product still pending
	mapping, err := wcmap.ProductMapByProductID(db, p.ID)
	require.NoError(t, err)
	require.NotNil(t, mapping)
	stored, err := product.SelectBySKU(db, "AB-100")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.SyncPending)

	// second run resumes the SKU as an update, never a second create
	result = NewWooEngine(db, mock, 100, 100, "", imagemap.Map{}, false).Run()
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Stats.ProductsUpdated)

	creates := 0
	for _, batch := range mock.productBatches {
		creates += len(batch.Create)
	}
	assert.Equal(t, 1, creates)

	stored, err = product.SelectBySKU(db, "AB-100")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.SyncPending)
}

func TestWooEngineImageMapPreferredOverFeedURL(t *testing.T) {
	db := newTestDB(t)
	p := seedPendingProduct(t, db, "AB-100", "Acme")
	p.ImageURL = "https://img.example.com/ab-100.jpg"
	require.NoError(t, product.Update(db, p))
	mock := newWooMock()
	images := imagemap.Map{"AB-100": {MediaID: 555}}

	engine := NewWooEngine(db, mock, 100, 100, "", images, false)
	result := engine.Run()
	require.True(t, result.Success)

	payload := mock.productBatches[0].Create[0]
	require.Len(t, payload.Images, 1)
	assert.Equal(t, int64(555), payload.Images[0].ID)
	assert.Empty(t, payload.Images[0].Src)
}

func TestWooEngineStaleImageMapFallsBackToSource(t *testing.T) {
	db := newTestDB(t)
	p := seedPendingProduct(t, db, "AB-100", "Acme")
	p.ImageURL = "https://img.example.com/ab-100.jpg"
	p.LastFeedSync = sql.NullString{String: "2024-06-01T12:00:00Z", Valid: true}
	require.NoError(t, product.Update(db, p))
	mock := newWooMock()

	// uploaded before the record last changed: the library copy may show the
	// old image, so the current source URL wins
	images := imagemap.Map{"AB-100": {MediaID: 555, UploadedAt: "2024-01-15T08:00:00Z"}}
	engine := NewWooEngine(db, mock, 100, 100, "", images, false)
	result := engine.Run()
	require.True(t, result.Success)

	payload := mock.productBatches[0].Create[0]
	require.Len(t, payload.Images, 1)
	assert.Equal(t, int64(0), payload.Images[0].ID)
	assert.Equal(t, "https://img.example.com/ab-100.jpg", payload.Images[0].Src)
}

func TestWooEngineFreshImageMapEntryKept(t *testing.T) {
	db := newTestDB(t)
	p := seedPendingProduct(t, db, "AB-100", "Acme")
	p.ImageURL = "https://img.example.com/ab-100.jpg"
	p.LastFeedSync = sql.NullString{String: "2024-06-01T12:00:00Z", Valid: true}
	require.NoError(t, product.Update(db, p))
	mock := newWooMock()

	images := imagemap.Map{"AB-100": {MediaID: 555, UploadedAt: "2024-06-02T08:00:00Z"}}
	engine := NewWooEngine(db, mock, 100, 100, "", images, false)
	result := engine.Run()
	require.True(t, result.Success)

	payload := mock.productBatches[0].Create[0]
	require.Len(t, payload.Images, 1)
	assert.Equal(t, int64(555), payload.Images[0].ID)
}

func TestWooEngineDescriptionTemplate(t *testing.T) {
	db := newTestDB(t)
	seedPendingProduct(t, db, "AB-100", "Acme")
	mock := newWooMock()

	engine := NewWooEngine(db, mock, 100, 100, "{brand} {name}", imagemap.Map{}, false)
	result := engine.Run()
	require.True(t, result.Success)

	payload := mock.productBatches[0].Create[0]
	assert.Equal(t, "Acme Product AB-100", payload.Description)
}

func TestWooEngineDryRunCallsNothing(t *testing.T) {
	db := newTestDB(t)
	p := seedPendingProduct(t, db, "AB-100", "Acme")
	mock := newWooMock()

	engine := NewWooEngine(db, mock, 100, 100, "", imagemap.Map{}, true)
	result := engine.Run()
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Stats.ProductsCreated)

	assert.Empty(t, mock.productBatches)
	assert.Empty(t, mock.variationBatches)
	assert.Equal(t, 0, mock.categoriesAdded)

	stored, err := product.SelectBySKU(db, "AB-100")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.SyncPending)
	mapping, err := wcmap.ProductMapByProductID(db, p.ID)
	require.NoError(t, err)
	assert.Nil(t, mapping)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme", Slugify("Acme"))
	assert.Equal(t, "new-balance", Slugify("New Balance"))
	assert.Equal(t, "a-b-c", Slugify("  A/B & C  "))
}
