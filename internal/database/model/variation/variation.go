package variation

import (
	"WooWithFeed/internal/database"
	"WooWithFeed/pkg/logging"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// SelectByParentSKU returns all variations of a product, including inactive ones.
func SelectByParentSKU(e sqlx.Ext, parentSKU string) ([]*database.ProductVariation, error) {

	logger := logging.GetLogger()
	logger.Debug("Variation.SelectByParentSKU:>Start")
	defer logger.Debug("Variation.SelectByParentSKU:>End")

	var variations []*database.ProductVariation
	query := "SELECT * FROM ProductVariation WHERE ParentSKU=$1 ORDER BY ID;"
	err := sqlx.Select(e, &variations, query, parentSKU)
	if err != nil {
		return nil, errors.Wrapf(err, "failed SELECT to dbsqlite; query:\n%s(%s)", query, parentSKU)
	}

	logger.Debugf("rows selected: %d", len(variations))
	return variations, nil
}

// SelectActiveByParentSKU returns the variations that still carry stock handling.
func SelectActiveByParentSKU(e sqlx.Ext, parentSKU string) ([]*database.ProductVariation, error) {

	logger := logging.GetLogger()
	logger.Debug("Variation.SelectActiveByParentSKU:>Start")
	defer logger.Debug("Variation.SelectActiveByParentSKU:>End")

	var variations []*database.ProductVariation
	query := "SELECT * FROM ProductVariation WHERE ParentSKU=$1 AND Active=1 ORDER BY ID;"
	err := sqlx.Select(e, &variations, query, parentSKU)
	if err != nil {
		return nil, errors.Wrapf(err, "failed SELECT to dbsqlite; query:\n%s(%s)", query, parentSKU)
	}

	return variations, nil
}

// SelectBySKU returns the variation with the given SKU or nil when absent.
func SelectBySKU(e sqlx.Ext, sku string) (*database.ProductVariation, error) {

	logger := logging.GetLogger()
	logger.Debug("Variation.SelectBySKU:>Start")
	defer logger.Debug("Variation.SelectBySKU:>End")

	var v database.ProductVariation
	query := "SELECT * FROM ProductVariation WHERE SKU=$1;"
	err := sqlx.Get(e, &v, query, sku)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed SELECT to dbsqlite; query:\n%s(%s)", query, sku)
	}

	return &v, nil
}

// Insert adds a new variation row and fills in v.ID.
func Insert(e sqlx.Ext, v *database.ProductVariation) error {

	logger := logging.GetLogger()
	logger.Debug("Variation.Insert:>Start")
	defer logger.Debug("Variation.Insert:>End")

	query := `INSERT INTO ProductVariation
		(ParentSKU, SKU, SizeEU, SizeUS, StockQuantity, RetailPrice, Active)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`
	result, err := e.Exec(query,
		v.ParentSKU, v.SKU, v.SizeEU, v.SizeUS, v.StockQuantity, v.RetailPrice, v.Active)
	if err != nil {
		return errors.Wrapf(err, "failed INSERT to dbsqlite; query:\n%s(%s)", query, v.SKU)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed LastInsertId()")
	}
	v.ID = id

	logger.Debugf("variation inserted, SKU: %s, ID: %d", v.SKU, v.ID)
	return nil
}

// Update overwrites the mutable columns of the row identified by v.ID.
func Update(e sqlx.Ext, v *database.ProductVariation) error {

	logger := logging.GetLogger()
	logger.Debug("Variation.Update:>Start")
	defer logger.Debug("Variation.Update:>End")

	query := `UPDATE ProductVariation SET
		SizeEU=$1, SizeUS=$2, StockQuantity=$3, RetailPrice=$4, Active=$5
		WHERE ID=$6;`
	result, err := e.Exec(query, v.SizeEU, v.SizeUS, v.StockQuantity, v.RetailPrice, v.Active, v.ID)
	if err != nil {
		return errors.Wrapf(err, "failed UPDATE to dbsqlite; query:\n%s(ID: %d)", query, v.ID)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed RowsAffected()")
	}
	if affected != 1 {
		return errors.Errorf("UPDATE failed, affected = %d, ID: %d", affected, v.ID)
	}

	return nil
}

// DeactivateByParentSKU zeroes stock and drops the active flag for every
// variation of a product. Rows are never deleted.
func DeactivateByParentSKU(e sqlx.Ext, parentSKU string) error {

	logger := logging.GetLogger()
	logger.Debug("Variation.DeactivateByParentSKU:>Start")
	defer logger.Debug("Variation.DeactivateByParentSKU:>End")

	query := "UPDATE ProductVariation SET StockQuantity=0, Active=0 WHERE ParentSKU=$1;"
	_, err := e.Exec(query, parentSKU)
	if err != nil {
		return errors.Wrapf(err, "failed UPDATE to dbsqlite; query:\n%s(%s)", query, parentSKU)
	}

	return nil
}

// Deactivate zeroes stock and drops the active flag of a single variation.
func Deactivate(e sqlx.Ext, id int64) error {

	logger := logging.GetLogger()
	logger.Debug("Variation.Deactivate:>Start")
	defer logger.Debug("Variation.Deactivate:>End")

	query := "UPDATE ProductVariation SET StockQuantity=0, Active=0 WHERE ID=$1;"
	_, err := e.Exec(query, id)
	if err != nil {
		return errors.Wrapf(err, "failed UPDATE to dbsqlite; query:\n%s(%d)", query, id)
	}

	return nil
}
