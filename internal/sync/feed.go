package sync

import (
	"WooWithFeed/internal/database"
	"WooWithFeed/internal/database/model/product"
	"WooWithFeed/internal/database/model/synclog"
	"WooWithFeed/internal/database/model/variation"
	"WooWithFeed/internal/feedapi"
	modelsFEEDAPI "WooWithFeed/internal/feedapi/models"
	"WooWithFeed/internal/pricing"
	"WooWithFeed/internal/signature"
	"WooWithFeed/pkg/logging"
	"database/sql"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// FeedEngine makes the store agree with the current feed snapshot. One Run is
// one full pull; all writes of a run share a single transaction.
type FeedEngine struct {
	db      *sqlx.DB
	api     feedapi.FEEDAPI
	pricing pricing.Policy
	dryRun  bool
}

func NewFeedEngine(db *sqlx.DB, api feedapi.FEEDAPI, policy pricing.Policy, dryRun bool) *FeedEngine {
	return &FeedEngine{
		db:      db,
		api:     api,
		pricing: policy,
		dryRun:  dryRun,
	}
}

// Run pulls the full feed and applies create/update/remove transitions.
// Any failure inside the loop rolls the whole run back; the returned stats
// then reflect only the in-memory counters, not persisted state.
func (e *FeedEngine) Run() *FeedSyncResult {

	logger := logging.GetLogger()
	logger.Info("FeedSync:>Start")
	defer logger.Info("FeedSync:>End")

	result := &FeedSyncResult{}

	feedProducts, err := e.api.ProductListAll()
	if err != nil {
		result.Error = errors.Wrap(err, "failed in feedapi.ProductListAll()")
		logger.Errorf("feed fetch failed, no partial application: %v", result.Error)
		return result
	}
	result.Stats.ProductsTotal = len(feedProducts)

	existing, err := product.SelectAll(e.db)
	if err != nil {
		result.Error = errors.Wrap(err, "failed in product.SelectAll()")
		logger.Error(result.Error)
		return result
	}

	existingBySKU := make(map[string]*database.Product, len(existing))
	for i := range existing {
		existingBySKU[existing[i].SKU] = existing[i]
	}
	logger.Infof("store loaded, products: %d", len(existingBySKU))

	var ext sqlx.Ext = e.db
	var tx *sqlx.Tx
	if !e.dryRun {
		tx, err = e.db.Beginx()
		if err != nil {
			result.Error = errors.Wrap(err, "failed db.Beginx()")
			logger.Error(result.Error)
			return result
		}
		ext = tx
	}

	err = e.applyFeed(ext, feedProducts, existingBySKU, &result.Stats)
	if err != nil {
		result.Error = err
		logger.Errorf("feed sync aborted, rolling back: %v", err)
		if tx != nil {
			rollbackErr := tx.Rollback()
			if rollbackErr != nil {
				logger.Errorf("failed in Rollback(); %v", rollbackErr)
			} else {
				logger.Info("Rollback() is done")
			}
		}
		return result
	}

	if tx != nil {
		err = tx.Commit()
		if err != nil {
			result.Error = errors.Wrap(err, "failed tx.Commit()")
			logger.Error(result.Error)
			return result
		}
	}

	result.Success = true
	logger.Infof("feed sync done, created:%d updated:%d unchanged:%d removed:%d skipped:%d",
		result.Stats.ProductsCreated, result.Stats.ProductsUpdated,
		result.Stats.ProductsUnchanged, result.Stats.ProductsRemoved,
		result.Stats.ProductsSkipped)
	return result
}

func (e *FeedEngine) applyFeed(ext sqlx.Ext, feedProducts []*modelsFEEDAPI.Product, existingBySKU map[string]*database.Product, stats *FeedSyncStats) error {

	logger := logging.GetLogger()

	now := time.Now().UTC().Format(time.RFC3339)
	seen := make(map[string]bool, len(feedProducts))

	for _, feedProduct := range feedProducts {
		if feedProduct.SKU == "" {
			stats.ProductsSkipped++
			logger.Debugf("feed record without sku skipped, feed id: %d", feedProduct.ID)
			continue
		}
		seen[feedProduct.SKU] = true

		sig := signature.Compute(feedProduct.Name, feedProduct.BrandName,
			feedProduct.ImageFullURL, feedProduct.SizeMapperName)

		local, found := existingBySKU[feedProduct.SKU]
		switch {
		case !found:
			stats.ProductsCreated++
			if e.dryRun {
				// still run the per-size diff so the preview counters
				// mirror a real run
				err := e.syncVariations(ext, feedProduct.SKU, feedProduct.Sizes, stats)
				if err != nil {
					return errors.Wrapf(err, "failed variation preview of sku %s", feedProduct.SKU)
				}
				continue
			}
			err := e.createProduct(ext, feedProduct, sig, now, stats)
			if err != nil {
				return errors.Wrapf(err, "failed create of sku %s", feedProduct.SKU)
			}
		case local.FeedSignature != sig:
			stats.ProductsUpdated++
			if e.dryRun {
				err := e.syncVariations(ext, feedProduct.SKU, feedProduct.Sizes, stats)
				if err != nil {
					return errors.Wrapf(err, "failed variation preview of sku %s", feedProduct.SKU)
				}
				continue
			}
			err := e.updateProduct(ext, local, feedProduct, sig, now, stats)
			if err != nil {
				return errors.Wrapf(err, "failed update of sku %s", feedProduct.SKU)
			}
		default:
			// identical material content, not a single write
			stats.ProductsUnchanged++
		}
	}

	// products of feed origin that this pull no longer carries
	for sku, local := range existingBySKU {
		if seen[sku] {
			continue
		}
		if local.Source != database.PRODUCT_SOURCE_FEED {
			continue
		}
		if local.Status == database.PRODUCT_STATUS_INACTIVE {
			continue
		}
		stats.ProductsRemoved++
		if e.dryRun {
			continue
		}
		err := e.removeProduct(ext, local, now)
		if err != nil {
			return errors.Wrapf(err, "failed removal of sku %s", sku)
		}
	}

	return nil
}

func (e *FeedEngine) createProduct(ext sqlx.Ext, feedProduct *modelsFEEDAPI.Product, sig, now string, stats *FeedSyncStats) error {

	p := &database.Product{
		SKU:           feedProduct.SKU,
		Name:          feedProduct.Name,
		Brand:         feedProduct.BrandName,
		ImageURL:      feedProduct.ImageFullURL,
		SizeMapper:    feedProduct.SizeMapperName,
		FeedID:        formatFeedID(feedProduct.ID),
		FeedSignature: sig,
		Status:        database.PRODUCT_STATUS_ACTIVE,
		Source:        database.PRODUCT_SOURCE_FEED,
		LastFeedSync:  sql.NullString{String: now, Valid: true},
		SyncPending:   1,
		SyncAction:    sql.NullString{String: database.SYNC_ACTION_CREATE, Valid: true},
	}

	err := product.Insert(ext, p)
	if err != nil {
		return errors.Wrap(err, "failed in product.Insert()")
	}

	err = e.syncVariations(ext, feedProduct.SKU, feedProduct.Sizes, stats)
	if err != nil {
		return errors.Wrap(err, "failed in syncVariations()")
	}

	err = synclog.Append(ext, database.SYNCLOG_TYPE_FEED_TO_DB, database.SYNC_ACTION_CREATE,
		"product", p.ID, feedProduct, "")
	if err != nil {
		return errors.Wrap(err, "failed in synclog.Append()")
	}

	return nil
}

func (e *FeedEngine) updateProduct(ext sqlx.Ext, local *database.Product, feedProduct *modelsFEEDAPI.Product, sig, now string, stats *FeedSyncStats) error {

	local.Name = feedProduct.Name
	local.Brand = feedProduct.BrandName
	local.ImageURL = feedProduct.ImageFullURL
	local.SizeMapper = feedProduct.SizeMapperName
	local.FeedID = formatFeedID(feedProduct.ID)
	local.FeedSignature = sig
	local.Status = database.PRODUCT_STATUS_ACTIVE
	local.LastFeedSync = sql.NullString{String: now, Valid: true}
	local.SyncPending = 1
	if !local.SyncAction.Valid || local.SyncAction.String != database.SYNC_ACTION_CREATE {
		local.SyncAction = sql.NullString{String: database.SYNC_ACTION_UPDATE, Valid: true}
	}

	err := product.Update(ext, local)
	if err != nil {
		return errors.Wrap(err, "failed in product.Update()")
	}

	err = e.syncVariations(ext, local.SKU, feedProduct.Sizes, stats)
	if err != nil {
		return errors.Wrap(err, "failed in syncVariations()")
	}

	err = synclog.Append(ext, database.SYNCLOG_TYPE_FEED_TO_DB, database.SYNC_ACTION_UPDATE,
		"product", local.ID, feedProduct, "signature changed")
	if err != nil {
		return errors.Wrap(err, "failed in synclog.Append()")
	}

	return nil
}

// removeProduct handles a product absent from the pull: status goes inactive,
// every variation's stock goes to zero, nothing is deleted.
func (e *FeedEngine) removeProduct(ext sqlx.Ext, local *database.Product, now string) error {

	local.Status = database.PRODUCT_STATUS_INACTIVE
	local.LastFeedSync = sql.NullString{String: now, Valid: true}
	local.SyncPending = 1
	local.SyncAction = sql.NullString{String: database.SYNC_ACTION_DELETE, Valid: true}

	err := product.Update(ext, local)
	if err != nil {
		return errors.Wrap(err, "failed in product.Update()")
	}

	err = variation.DeactivateByParentSKU(ext, local.SKU)
	if err != nil {
		return errors.Wrap(err, "failed in variation.DeactivateByParentSKU()")
	}

	err = synclog.Append(ext, database.SYNCLOG_TYPE_FEED_TO_DB, database.SYNC_ACTION_DELETE,
		"product", local.ID, nil, "not_in_feed")
	if err != nil {
		return errors.Wrap(err, "failed in synclog.Append()")
	}

	return nil
}

// syncVariations upserts one variation per feed size and deactivates the
// variations whose SKU left the size list. Shared by the create, update and
// removal paths. In a dry run the counters accumulate without any write.
func (e *FeedEngine) syncVariations(ext sqlx.Ext, parentSKU string, sizes []*modelsFEEDAPI.Size, stats *FeedSyncStats) error {

	logger := logging.GetLogger()

	existing, err := variation.SelectByParentSKU(ext, parentSKU)
	if err != nil {
		return errors.Wrap(err, "failed in variation.SelectByParentSKU()")
	}

	existingBySKU := make(map[string]*database.ProductVariation, len(existing))
	for i := range existing {
		existingBySKU[existing[i].SKU] = existing[i]
	}

	inFeed := make(map[string]bool, len(sizes))
	for _, size := range sizes {
		if size.SizeEU == "" {
			logger.Debugf("size without size_eu skipped, parent: %s", parentSKU)
			continue
		}

		variationSKU := size.VariationSKU(parentSKU)
		inFeed[variationSKU] = true

		retail, err := e.pricing.Retail(size.OfferPrice)
		if err != nil {
			logger.Errorf("price derivation failed, variation %s skipped: %v", variationSKU, err)
			continue
		}

		if v, found := existingBySKU[variationSKU]; found {
			v.SizeEU = size.SizeEU
			v.SizeUS = size.SizeUS
			v.StockQuantity = size.Quantity
			v.RetailPrice = retail
			v.Active = 1
			if !e.dryRun {
				err = variation.Update(ext, v)
				if err != nil {
					return errors.Wrap(err, "failed in variation.Update()")
				}
			}
			stats.VariationsUpdated++
		} else {
			v := &database.ProductVariation{
				ParentSKU:     parentSKU,
				SKU:           variationSKU,
				SizeEU:        size.SizeEU,
				SizeUS:        size.SizeUS,
				StockQuantity: size.Quantity,
				RetailPrice:   retail,
				Active:        1,
			}
			if !e.dryRun {
				err = variation.Insert(ext, v)
				if err != nil {
					return errors.Wrap(err, "failed in variation.Insert()")
				}
			}
			stats.VariationsCreated++
		}
	}

	for sku, v := range existingBySKU {
		if inFeed[sku] {
			continue
		}
		if v.Active == 0 && v.StockQuantity == 0 {
			continue
		}
		if !e.dryRun {
			err = variation.Deactivate(ext, v.ID)
			if err != nil {
				return errors.Wrap(err, "failed in variation.Deactivate()")
			}
		}
		stats.VariationsDeactivated++
	}

	return nil
}

func formatFeedID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
