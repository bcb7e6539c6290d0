package product

import (
	"WooWithFeed/internal/database"
	"WooWithFeed/pkg/logging"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// SelectAll returns every product row, active or not.
func SelectAll(e sqlx.Ext) ([]*database.Product, error) {

	logger := logging.GetLogger()
	logger.Debug("Product.SelectAll:>Start")
	defer logger.Debug("Product.SelectAll:>End")

	var products []*database.Product
	query := "SELECT * FROM Product;"
	err := sqlx.Select(e, &products, query)
	if err != nil {
		return nil, errors.Wrapf(err, "failed SELECT to dbsqlite; query:\n%s", query)
	}

	logger.Debugf("rows selected: %d", len(products))
	return products, nil
}

// SelectBySKU returns the product with the given SKU or nil when absent.
func SelectBySKU(e sqlx.Ext, sku string) (*database.Product, error) {

	logger := logging.GetLogger()
	logger.Debug("Product.SelectBySKU:>Start")
	defer logger.Debug("Product.SelectBySKU:>End")

	var p database.Product
	query := "SELECT * FROM Product WHERE SKU=$1;"
	err := sqlx.Get(e, &p, query, sku)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed SELECT to dbsqlite; query:\n%s(%s)", query, sku)
	}

	return &p, nil
}

// SelectPending returns up to limit products flagged for Woo synchronization.
func SelectPending(e sqlx.Ext, limit int) ([]*database.Product, error) {

	logger := logging.GetLogger()
	logger.Debug("Product.SelectPending:>Start")
	defer logger.Debug("Product.SelectPending:>End")

	var products []*database.Product
	query := "SELECT * FROM Product WHERE SyncPending=1 ORDER BY ID LIMIT $1;"
	err := sqlx.Select(e, &products, query, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed SELECT to dbsqlite; query:\n%s(%d)", query, limit)
	}

	logger.Debugf("rows selected: %d", len(products))
	return products, nil
}

// Insert adds a new product row and fills in p.ID.
func Insert(e sqlx.Ext, p *database.Product) error {

	logger := logging.GetLogger()
	logger.Debug("Product.Insert:>Start")
	defer logger.Debug("Product.Insert:>End")

	query := `INSERT INTO Product
		(SKU, Name, Brand, ImageURL, SizeMapper, FeedID, FeedSignature, Status, Source, LastFeedSync, SyncPending, SyncAction)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	result, err := e.Exec(query,
		p.SKU, p.Name, p.Brand, p.ImageURL, p.SizeMapper, p.FeedID, p.FeedSignature,
		p.Status, p.Source, p.LastFeedSync, p.SyncPending, p.SyncAction)
	if err != nil {
		return errors.Wrapf(err, "failed INSERT to dbsqlite; query:\n%s(%s)", query, p.SKU)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed LastInsertId()")
	}
	p.ID = id

	logger.Debugf("product inserted, SKU: %s, ID: %d", p.SKU, p.ID)
	return nil
}

// Update overwrites every mutable column of the row identified by p.ID.
func Update(e sqlx.Ext, p *database.Product) error {

	logger := logging.GetLogger()
	logger.Debug("Product.Update:>Start")
	defer logger.Debug("Product.Update:>End")

	query := `UPDATE Product SET
		Name=$1, Brand=$2, ImageURL=$3, SizeMapper=$4, FeedID=$5, FeedSignature=$6,
		Status=$7, Source=$8, LastFeedSync=$9, SyncPending=$10, SyncAction=$11
		WHERE ID=$12;`
	result, err := e.Exec(query,
		p.Name, p.Brand, p.ImageURL, p.SizeMapper, p.FeedID, p.FeedSignature,
		p.Status, p.Source, p.LastFeedSync, p.SyncPending, p.SyncAction, p.ID)
	if err != nil {
		return errors.Wrapf(err, "failed UPDATE to dbsqlite; query:\n%s(ID: %d)", query, p.ID)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed RowsAffected()")
	}
	if affected != 1 {
		return errors.Errorf("UPDATE failed, affected = %d, ID: %d", affected, p.ID)
	}

	logger.Debugf("product updated, SKU: %s, ID: %d", p.SKU, p.ID)
	return nil
}

// ClearSyncPending resets the pending flag and action after a confirmed Woo write.
func ClearSyncPending(e sqlx.Ext, id int64) error {

	logger := logging.GetLogger()
	logger.Debug("Product.ClearSyncPending:>Start")
	defer logger.Debug("Product.ClearSyncPending:>End")

	query := "UPDATE Product SET SyncPending=0, SyncAction=NULL WHERE ID=$1;"
	_, err := e.Exec(query, id)
	if err != nil {
		return errors.Wrapf(err, "failed UPDATE to dbsqlite; query:\n%s(%d)", query, id)
	}
	return nil
}
