package database

const DB_SCHEMA = `CREATE TABLE Product (
	ID integer PRIMARY KEY AUTOINCREMENT,
	SKU text NOT NULL UNIQUE,
	Name text,
	Brand text,
	ImageURL text,
	SizeMapper text,
	FeedID text,
	FeedSignature text,
	Status text NOT NULL DEFAULT 'active',
	Source text NOT NULL DEFAULT 'feed',
	LastFeedSync text,
	SyncPending integer NOT NULL DEFAULT 0,
	SyncAction text
);

CREATE TABLE ProductVariation (
	ID integer PRIMARY KEY AUTOINCREMENT,
	ParentSKU text NOT NULL,
	SKU text NOT NULL UNIQUE,
	SizeEU text,
	SizeUS text,
	StockQuantity integer NOT NULL DEFAULT 0,
	RetailPrice real NOT NULL DEFAULT 0,
	Active integer NOT NULL DEFAULT 1
);

CREATE INDEX idx_ProductVariation_ParentSKU ON ProductVariation (ParentSKU);

CREATE TABLE WcProductMap (
	ID integer PRIMARY KEY AUTOINCREMENT,
	ProductID integer NOT NULL UNIQUE,
	WcProductID integer NOT NULL
);

CREATE TABLE WcVariationMap (
	ID integer PRIMARY KEY AUTOINCREMENT,
	VariationID integer NOT NULL UNIQUE,
	WcVariationID integer NOT NULL
);

CREATE TABLE SyncLog (
	ID integer PRIMARY KEY AUTOINCREMENT,
	Type text NOT NULL,
	Action text NOT NULL,
	Entity text NOT NULL,
	EntityID integer,
	Payload text,
	Note text,
	CreatedAt text NOT NULL
);
`
