package wcmap

import (
	"WooWithFeed/internal/database"
	"WooWithFeed/pkg/logging"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// ProductMapByProductID returns the Woo mapping of a local product or nil
// when the product was never confirmed created remotely.
func ProductMapByProductID(e sqlx.Ext, productID int64) (*database.WcProductMap, error) {

	logger := logging.GetLogger()
	logger.Debug("WcMap.ProductMapByProductID:>Start")
	defer logger.Debug("WcMap.ProductMapByProductID:>End")

	var m database.WcProductMap
	query := "SELECT * FROM WcProductMap WHERE ProductID=$1;"
	err := sqlx.Get(e, &m, query, productID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed SELECT to dbsqlite; query:\n%s(%d)", query, productID)
	}

	return &m, nil
}

// InsertProductMap records a confirmed remote create. The UNIQUE constraint
// on ProductID keeps the mapping single-rowed on re-runs.
func InsertProductMap(e sqlx.Ext, productID, wcProductID int64) error {

	logger := logging.GetLogger()
	logger.Debug("WcMap.InsertProductMap:>Start")
	defer logger.Debug("WcMap.InsertProductMap:>End")

	query := `INSERT INTO WcProductMap (ProductID, WcProductID) VALUES ($1, $2)
		ON CONFLICT(ProductID) DO UPDATE SET WcProductID=excluded.WcProductID;`
	_, err := e.Exec(query, productID, wcProductID)
	if err != nil {
		return errors.Wrapf(err, "failed INSERT to dbsqlite; query:\n%s(%d, %d)", query, productID, wcProductID)
	}

	logger.Debugf("product map stored, ProductID: %d, WcProductID: %d", productID, wcProductID)
	return nil
}

// VariationMapByVariationID returns the Woo mapping of a local variation or nil.
func VariationMapByVariationID(e sqlx.Ext, variationID int64) (*database.WcVariationMap, error) {

	logger := logging.GetLogger()
	logger.Debug("WcMap.VariationMapByVariationID:>Start")
	defer logger.Debug("WcMap.VariationMapByVariationID:>End")

	var m database.WcVariationMap
	query := "SELECT * FROM WcVariationMap WHERE VariationID=$1;"
	err := sqlx.Get(e, &m, query, variationID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed SELECT to dbsqlite; query:\n%s(%d)", query, variationID)
	}

	return &m, nil
}

// UpsertVariationMap records or refreshes a confirmed remote variation id.
// Refreshing covers the self-healing path where the SKU already exists in Woo
// but a prior run crashed before the mapping row was written.
func UpsertVariationMap(e sqlx.Ext, variationID, wcVariationID int64) error {

	logger := logging.GetLogger()
	logger.Debug("WcMap.UpsertVariationMap:>Start")
	defer logger.Debug("WcMap.UpsertVariationMap:>End")

	query := `INSERT INTO WcVariationMap (VariationID, WcVariationID) VALUES ($1, $2)
		ON CONFLICT(VariationID) DO UPDATE SET WcVariationID=excluded.WcVariationID;`
	_, err := e.Exec(query, variationID, wcVariationID)
	if err != nil {
		return errors.Wrapf(err, "failed INSERT to dbsqlite; query:\n%s(%d, %d)", query, variationID, wcVariationID)
	}

	logger.Debugf("variation map stored, VariationID: %d, WcVariationID: %d", variationID, wcVariationID)
	return nil
}
