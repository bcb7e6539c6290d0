package cleanup

import (
	"WooWithFeed/internal/database"
	"WooWithFeed/internal/database/model/product"
	"WooWithFeed/internal/wooapi/models"
	optionsWoo "WooWithFeed/internal/wooapi/options"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wooMock struct {
	remote  []*models.Product
	deleted []int64
}

func (m *wooMock) ProductList(opts ...optionsWoo.Option) ([]*models.Product, error) {
	return nil, nil
}

func (m *wooMock) ProductListAll() ([]*models.Product, error) {
	return m.remote, nil
}

func (m *wooMock) ProductBatch(req *models.ProductBatchRequest) (*models.ProductBatchResponse, error) {
	return &models.ProductBatchResponse{}, nil
}

func (m *wooMock) ProductDel(ID int64, opts ...optionsWoo.Option) error {
	m.deleted = append(m.deleted, ID)
	return nil
}

func (m *wooMock) ProductVariationList(productID int64, opts ...optionsWoo.Option) ([]*models.Variation, error) {
	return nil, nil
}

func (m *wooMock) ProductVariationListAll(productID int64) ([]*models.Variation, error) {
	return nil, nil
}

func (m *wooMock) ProductVariationBatch(productID int64, req *models.VariationBatchRequest) (*models.VariationBatchResponse, error) {
	return &models.VariationBatchResponse{}, nil
}

func (m *wooMock) ProductCategoryList(opts ...optionsWoo.Option) ([]*models.ProductCategory, error) {
	return nil, nil
}

func (m *wooMock) ProductCategoryListAll() ([]*models.ProductCategory, error) {
	return nil, nil
}

func (m *wooMock) ProductCategoryAdd(c *models.ProductCategory) (*models.ProductCategory, int64, error) {
	return c, 0, nil
}

func newCleanupDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	db.MustExec(database.DB_SCHEMA)
	return db
}

func seedProduct(t *testing.T, db *sqlx.DB, sku, status string) {
	t.Helper()
	require.NoError(t, product.Insert(db, &database.Product{
		SKU:    sku,
		Name:   "Product " + sku,
		Status: status,
		Source: database.PRODUCT_SOURCE_FEED,
	}))
}

func TestCleanupDeletesOrphansAndInactive(t *testing.T) {
	db := newCleanupDB(t)
	seedProduct(t, db, "KEEP-1", database.PRODUCT_STATUS_ACTIVE)
	seedProduct(t, db, "GONE-1", database.PRODUCT_STATUS_INACTIVE)

	mock := &wooMock{remote: []*models.Product{
		{ID: 1, Sku: "KEEP-1"},
		{ID: 2, Sku: "GONE-1"},
		{ID: 3, Sku: "ORPHAN-1"},
	}}

	stats, err := NewRunner(db, mock, nil, false).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Kept)
	assert.Equal(t, 2, stats.Deleted)
	assert.ElementsMatch(t, []int64{2, 3}, mock.deleted)
}

func TestCleanupHonorsExclusions(t *testing.T) {
	db := newCleanupDB(t)
	mock := &wooMock{remote: []*models.Product{
		{ID: 1, Sku: "ORPHAN-1"},
		{ID: 2, Sku: "ORPHAN-2"},
	}}

	excluded := map[string]bool{"ORPHAN-1": true}
	stats, err := NewRunner(db, mock, excluded, false).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Excluded)
	assert.Equal(t, 1, stats.Deleted)
	assert.Equal(t, []int64{2}, mock.deleted)
}

func TestCleanupDryRunDeletesNothing(t *testing.T) {
	db := newCleanupDB(t)
	mock := &wooMock{remote: []*models.Product{{ID: 1, Sku: "ORPHAN-1"}}}

	stats, err := NewRunner(db, mock, nil, true).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Deleted)
	assert.Empty(t, mock.deleted)
}

func TestLoadExclusionsMergesFileAndFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.txt")
	require.NoError(t, os.WriteFile(path, []byte("AB-100\n# comment\n\n AB-200 \n"), 0644))

	excluded, err := LoadExclusions(path, "AB-300, AB-100")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"AB-100": true, "AB-200": true, "AB-300": true}, excluded)
}

func TestLoadExclusionsMissingFile(t *testing.T) {
	_, err := LoadExclusions("no/such/file.txt", "")
	assert.Error(t, err)

	excluded, err := LoadExclusions("", "AB-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"AB-1": true}, excluded)
}
