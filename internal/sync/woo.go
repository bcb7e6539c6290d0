package sync

import (
	"WooWithFeed/internal/database"
	"WooWithFeed/internal/database/model/product"
	"WooWithFeed/internal/database/model/synclog"
	"WooWithFeed/internal/database/model/variation"
	"WooWithFeed/internal/database/model/wcmap"
	"WooWithFeed/internal/imagemap"
	"WooWithFeed/internal/wooapi"
	modelsWOOAPI "WooWithFeed/internal/wooapi/models"
	optionsWoo "WooWithFeed/internal/wooapi/options"
	"WooWithFeed/pkg/logging"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const SIZE_ATTRIBUTE_NAME = "Size"
const BRAND_ATTRIBUTE_NAME = "Brand"

// WooEngine pushes pending store state into the WooCommerce catalog in
// batches. Per-item failures are counted and logged, never fatal to the run;
// database writes happen per confirmed item, so an interrupted run leaves
// completed items durably applied.
type WooEngine struct {
	db        *sqlx.DB
	api       wooapi.WOOAPI
	limit     int
	batchSize int
	template  string
	images    imagemap.Map
	dryRun    bool

	// run-scoped, never persisted: slug -> remote category id
	categoryCache map[string]int64
}

func NewWooEngine(db *sqlx.DB, api wooapi.WOOAPI, limit, batchSize int, template string, images imagemap.Map, dryRun bool) *WooEngine {
	if batchSize <= 0 || batchSize > 100 {
		batchSize = 100
	}
	return &WooEngine{
		db:            db,
		api:           api,
		limit:         limit,
		batchSize:     batchSize,
		template:      template,
		images:        images,
		dryRun:        dryRun,
		categoryCache: make(map[string]int64),
	}
}

// batchItem pairs a local product with the payload submitted for it so batch
// response entries can be matched back by position.
type batchItem struct {
	local   *database.Product
	payload *modelsWOOAPI.Product
}

// Run selects pending products and pushes them batch by batch.
func (e *WooEngine) Run() *WooSyncResult {

	logger := logging.GetLogger()
	logger.Info("WooSync:>Start")
	defer logger.Info("WooSync:>End")

	result := &WooSyncResult{}

	pending, err := product.SelectPending(e.db, e.limit)
	if err != nil {
		result.Error = errors.Wrap(err, "failed in product.SelectPending()")
		logger.Error(result.Error)
		return result
	}
	logger.Infof("pending products: %d", len(pending))

	for start := 0; start < len(pending); start += e.batchSize {
		end := start + e.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		e.runBatch(pending[start:end], &result.Stats)
	}

	result.Success = true
	logger.Infof("woo sync done, created:%d updated:%d variations created:%d updated:%d healed:%d errors:%d",
		result.Stats.ProductsCreated, result.Stats.ProductsUpdated,
		result.Stats.VariationsCreated, result.Stats.VariationsUpdated,
		result.Stats.MappingsHealed, result.Stats.Errors)
	return result
}

func (e *WooEngine) runBatch(batch []*database.Product, stats *WooSyncStats) {

	logger := logging.GetLogger()
	logger.Debugf("runBatch:>Start, size: %d", len(batch))
	defer logger.Debug("runBatch:>End")

	var creates, updates []batchItem
	req := &modelsWOOAPI.ProductBatchRequest{}

	for _, p := range batch {
		payload, err := e.buildProductPayload(p)
		if err != nil {
			stats.Errors++
			logger.Errorf("payload build failed, sku %s: %v", p.SKU, err)
			continue
		}

		mapping, err := wcmap.ProductMapByProductID(e.db, p.ID)
		if err != nil {
			stats.Errors++
			logger.Errorf("mapping lookup failed, sku %s: %v", p.SKU, err)
			continue
		}

		if mapping == nil {
			creates = append(creates, batchItem{local: p, payload: payload})
			req.Create = append(req.Create, payload)
		} else {
			payload.ID = mapping.WcProductID
			updates = append(updates, batchItem{local: p, payload: payload})
			req.Update = append(req.Update, payload)
		}
	}

	if e.dryRun {
		stats.ProductsCreated += len(creates)
		stats.ProductsUpdated += len(updates)
		return
	}

	if req.Empty() {
		return
	}

	resp, err := e.api.ProductBatch(req)
	if err != nil {
		stats.Errors += len(creates) + len(updates)
		logger.Errorf("product batch failed for %d items: %v", len(creates)+len(updates), err)
		return
	}

	for i, item := range creates {
		if i >= len(resp.Create) || !resp.Create[i].Succeeded() {
			stats.Errors++
			logger.Errorf("create not confirmed, sku %s, payload: %+v", item.local.SKU, item.payload)
			continue
		}
		wcID := resp.Create[i].ID
		err = e.confirmProduct(item.local, wcID, database.SYNC_ACTION_CREATE, stats)
		if err != nil {
			stats.Errors++
			logger.Errorf("failed to confirm create, sku %s: %v", item.local.SKU, err)
			continue
		}
		stats.ProductsCreated++
	}

	for i, item := range updates {
		if i >= len(resp.Update) || !resp.Update[i].Succeeded() {
			stats.Errors++
			logger.Errorf("update not confirmed, sku %s, payload: %+v", item.local.SKU, item.payload)
			continue
		}
		wcID := resp.Update[i].ID
		err = e.confirmProduct(item.local, wcID, database.SYNC_ACTION_UPDATE, stats)
		if err != nil {
			stats.Errors++
			logger.Errorf("failed to confirm update, sku %s: %v", item.local.SKU, err)
			continue
		}
		stats.ProductsUpdated++
	}
}

// confirmProduct runs after a definite success indicator for one product. The
// mapping row and the audit entry are committed first: if the variation push
// then fails, the next run resumes this SKU as an update instead of creating a
// duplicate remote product. The pending flag clears only once the variations
// went through too.
func (e *WooEngine) confirmProduct(local *database.Product, wcProductID int64, action string, stats *WooSyncStats) error {

	logger := logging.GetLogger()

	tx, err := e.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "failed db.Beginx()")
	}

	err = wcmap.InsertProductMap(tx, local.ID, wcProductID)
	if err == nil {
		err = synclog.Append(tx, database.SYNCLOG_TYPE_DB_TO_WOO, action,
			"product", local.ID, map[string]interface{}{"wc_product_id": wcProductID}, "")
	}
	if err != nil {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			logger.Errorf("failed in Rollback(); %v", rollbackErr)
		}
		return err
	}
	err = tx.Commit()
	if err != nil {
		return errors.Wrap(err, "failed tx.Commit()")
	}

	err = e.syncProductVariations(local, wcProductID, stats)
	if err != nil {
		return errors.Wrap(err, "failed in syncProductVariations()")
	}

	err = product.ClearSyncPending(e.db, local.ID)
	return errors.Wrap(err, "failed in product.ClearSyncPending()")
}

// syncProductVariations implements the per-parent variation protocol: fetch
// what exists remotely by SKU, update mapped-and-present SKUs, heal SKUs that
// exist remotely but are unmapped locally, create the rest. Remote variations
// are never deleted; local deactivation travels as stock 0 / outofstock.
func (e *WooEngine) syncProductVariations(local *database.Product, wcProductID int64, stats *WooSyncStats) error {

	logger := logging.GetLogger()

	locals, err := variation.SelectByParentSKU(e.db, local.SKU)
	if err != nil {
		return errors.Wrap(err, "failed in variation.SelectByParentSKU()")
	}
	if len(locals) == 0 {
		return nil
	}

	remote, err := e.api.ProductVariationListAll(wcProductID)
	if err != nil {
		return errors.Wrap(err, "failed in wooapi.ProductVariationListAll()")
	}
	remoteBySKU := make(map[string]*modelsWOOAPI.Variation, len(remote))
	for i := range remote {
		remoteBySKU[remote[i].Sku] = remote[i]
	}

	var creates, updates []*database.ProductVariation
	var healed []*database.ProductVariation
	req := &modelsWOOAPI.VariationBatchRequest{}

	for _, v := range locals {
		payload := e.buildVariationPayload(v)

		mapping, err := wcmap.VariationMapByVariationID(e.db, v.ID)
		if err != nil {
			return errors.Wrap(err, "failed in wcmap.VariationMapByVariationID()")
		}

		remoteVariation, existsRemotely := remoteBySKU[v.SKU]
		switch {
		case mapping != nil && existsRemotely:
			payload.ID = mapping.WcVariationID
			updates = append(updates, v)
			req.Update = append(req.Update, payload)
		case existsRemotely:
			// present in Woo but unmapped: a prior run died between the
			// remote create and the mapping write
			payload.ID = remoteVariation.ID
			updates = append(updates, v)
			healed = append(healed, v)
			req.Update = append(req.Update, payload)
		default:
			creates = append(creates, v)
			req.Create = append(req.Create, payload)
		}
	}

	resp, err := e.api.ProductVariationBatch(wcProductID, req)
	if err != nil {
		return errors.Wrap(err, "failed in wooapi.ProductVariationBatch()")
	}

	healedIDs := make(map[int64]bool, len(healed))
	for _, v := range healed {
		healedIDs[v.ID] = true
	}

	for i, v := range creates {
		if i >= len(resp.Create) || !resp.Create[i].Succeeded() {
			stats.Errors++
			logger.Errorf("variation create not confirmed, sku %s", v.SKU)
			continue
		}
		err = wcmap.UpsertVariationMap(e.db, v.ID, resp.Create[i].ID)
		if err != nil {
			return errors.Wrap(err, "failed in wcmap.UpsertVariationMap()")
		}
		stats.VariationsCreated++
	}

	for i, v := range updates {
		if i >= len(resp.Update) || !resp.Update[i].Succeeded() {
			stats.Errors++
			logger.Errorf("variation update not confirmed, sku %s", v.SKU)
			continue
		}
		err = wcmap.UpsertVariationMap(e.db, v.ID, resp.Update[i].ID)
		if err != nil {
			return errors.Wrap(err, "failed in wcmap.UpsertVariationMap()")
		}
		stats.VariationsUpdated++
		if healedIDs[v.ID] {
			stats.MappingsHealed++
			logger.Infof("variation mapping healed, sku %s, remote id %d", v.SKU, resp.Update[i].ID)
		}
	}

	return nil
}

func (e *WooEngine) buildProductPayload(p *database.Product) (*modelsWOOAPI.Product, error) {

	status := modelsWOOAPI.PRODUCT_STATUS_PUBLISH
	if p.Status == database.PRODUCT_STATUS_INACTIVE {
		status = modelsWOOAPI.PRODUCT_STATUS_DRAFT
	}

	payload := &modelsWOOAPI.Product{
		Name:        p.Name,
		Type:        modelsWOOAPI.PRODUCT_TYPE_VARIABLE,
		Status:      status,
		Sku:         p.SKU,
		Description: e.renderDescription(p),
	}

	if p.Brand != "" {
		categoryID, err := e.resolveCategoryID(p.Brand)
		if err != nil {
			return nil, errors.Wrapf(err, "failed category resolution for brand %s", p.Brand)
		}
		payload.Categories = []*modelsWOOAPI.Categories{{ID: categoryID}}
		payload.Attributes = append(payload.Attributes, &modelsWOOAPI.ProductAttribute{
			Name:    BRAND_ATTRIBUTE_NAME,
			Visible: true,
			Options: []string{p.Brand},
		})
	}

	variations, err := variation.SelectActiveByParentSKU(e.db, p.SKU)
	if err != nil {
		return nil, errors.Wrap(err, "failed in variation.SelectActiveByParentSKU()")
	}
	var sizes []string
	for _, v := range variations {
		sizes = append(sizes, v.SizeEU)
	}
	if len(sizes) > 0 {
		payload.Attributes = append(payload.Attributes, &modelsWOOAPI.ProductAttribute{
			Name:      SIZE_ATTRIBUTE_NAME,
			Visible:   true,
			Variation: true,
			Options:   sizes,
		})
	}

	payload.Images = e.imagePayload(p)

	return payload, nil
}

// imagePayload prefers the already-uploaded media library entry. When the feed
// record changed after that upload the entry may show an outdated image, so
// the source URL is sent instead and Woo sideloads the current one.
func (e *WooEngine) imagePayload(p *database.Product) []*modelsWOOAPI.ProductImage {
	entry, found := e.images[p.SKU]
	if found && entry.MediaID > 0 && !imageStale(entry, p) {
		return []*modelsWOOAPI.ProductImage{{ID: entry.MediaID}}
	}
	if p.ImageURL != "" {
		return []*modelsWOOAPI.ProductImage{{Src: p.ImageURL}}
	}
	return nil
}

func imageStale(entry imagemap.Entry, p *database.Product) bool {
	uploaded := entry.UploadedAtTime()
	if uploaded.IsZero() || !p.LastFeedSync.Valid {
		return false
	}
	lastSync, err := time.Parse(time.RFC3339, p.LastFeedSync.String)
	if err != nil {
		return false
	}
	return uploaded.Before(lastSync)
}

func (e *WooEngine) buildVariationPayload(v *database.ProductVariation) *modelsWOOAPI.Variation {

	stock := v.StockQuantity
	if v.Active == 0 {
		stock = 0
	}
	stockStatus := modelsWOOAPI.STOCK_STATUS_INSTOCK
	if stock == 0 {
		stockStatus = modelsWOOAPI.STOCK_STATUS_OUTOFSTOCK
	}

	return &modelsWOOAPI.Variation{
		Sku:           v.SKU,
		RegularPrice:  strconv.FormatFloat(v.RetailPrice, 'f', 2, 64),
		ManageStock:   true,
		StockQuantity: &stock,
		StockStatus:   stockStatus,
		Attributes: []*modelsWOOAPI.VariationAttribute{
			{Name: SIZE_ATTRIBUTE_NAME, Option: v.SizeEU},
		},
	}
}

// resolveCategoryID finds or creates the category for a name, at most one
// remote lookup/create per slug per run.
func (e *WooEngine) resolveCategoryID(name string) (int64, error) {

	logger := logging.GetLogger()

	slug := Slugify(name)
	if id, found := e.categoryCache[slug]; found {
		return id, nil
	}

	if e.dryRun {
		// a dry run must not create categories; pretend resolution succeeded
		e.categoryCache[slug] = 0
		return 0, nil
	}

	categories, err := e.api.ProductCategoryList(optionsWoo.Slug(slug))
	if err != nil {
		return 0, errors.Wrap(err, "failed in wooapi.ProductCategoryList()")
	}
	if len(categories) > 0 {
		e.categoryCache[slug] = categories[0].ID
		return categories[0].ID, nil
	}

	created, existingID, err := e.api.ProductCategoryAdd(&modelsWOOAPI.ProductCategory{Name: name, Slug: slug})
	if err != nil {
		return 0, errors.Wrap(err, "failed in wooapi.ProductCategoryAdd()")
	}
	var id int64
	if created != nil {
		id = created.ID
		logger.Infof("category created, name: %s, id: %d", name, id)
	} else {
		id = existingID
		logger.Infof("category already present, name: %s, id: %d", name, id)
	}

	e.categoryCache[slug] = id
	return id, nil
}

func (e *WooEngine) renderDescription(p *database.Product) string {
	if e.template == "" {
		return ""
	}
	r := strings.NewReplacer(
		"{name}", p.Name,
		"{brand}", p.Brand,
		"{sku}", p.SKU,
	)
	return r.Replace(e.template)
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowers a name to the form Woo uses for category slugs.
func Slugify(name string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
