package database

import "database/sql"

const (
	PRODUCT_STATUS_ACTIVE   = "active"
	PRODUCT_STATUS_INACTIVE = "inactive"

	PRODUCT_SOURCE_FEED   = "feed"
	PRODUCT_SOURCE_MANUAL = "manual"

	SYNC_ACTION_CREATE = "create"
	SYNC_ACTION_UPDATE = "update"
	SYNC_ACTION_DELETE = "delete"

	SYNCLOG_TYPE_FEED_TO_DB    = "feed_to_db"
	SYNCLOG_TYPE_DB_TO_WOO     = "db_to_woo"
	SYNCLOG_TYPE_WEBHOOK_TO_DB = "webhook_to_db"
)

type Product struct {
	ID            int64          `db:"ID"`
	SKU           string         `db:"SKU"`
	Name          string         `db:"Name"`
	Brand         string         `db:"Brand"`
	ImageURL      string         `db:"ImageURL"`
	SizeMapper    string         `db:"SizeMapper"`
	FeedID        string         `db:"FeedID"`
	FeedSignature string         `db:"FeedSignature"`
	Status        string         `db:"Status"`
	Source        string         `db:"Source"`
	LastFeedSync  sql.NullString `db:"LastFeedSync"`
	SyncPending   int            `db:"SyncPending"`
	SyncAction    sql.NullString `db:"SyncAction"`
}

type ProductVariation struct {
	ID            int64   `db:"ID"`
	ParentSKU     string  `db:"ParentSKU"`
	SKU           string  `db:"SKU"`
	SizeEU        string  `db:"SizeEU"`
	SizeUS        string  `db:"SizeUS"`
	StockQuantity int     `db:"StockQuantity"`
	RetailPrice   float64 `db:"RetailPrice"`
	Active        int     `db:"Active"`
}

type WcProductMap struct {
	ID          int64 `db:"ID"`
	ProductID   int64 `db:"ProductID"`
	WcProductID int64 `db:"WcProductID"`
}

type WcVariationMap struct {
	ID            int64 `db:"ID"`
	VariationID   int64 `db:"VariationID"`
	WcVariationID int64 `db:"WcVariationID"`
}

type SyncLog struct {
	ID        int64          `db:"ID"`
	Type      string         `db:"Type"`
	Action    string         `db:"Action"`
	Entity    string         `db:"Entity"`
	EntityID  sql.NullInt64  `db:"EntityID"`
	Payload   sql.NullString `db:"Payload"`
	Note      sql.NullString `db:"Note"`
	CreatedAt string         `db:"CreatedAt"`
}
