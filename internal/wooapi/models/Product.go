package models

// Product is the products endpoint payload, trimmed to the fields this
// service reads or writes.
type Product struct {
	ID               int64               `json:"id,omitempty"`
	Name             string              `json:"name,omitempty"`
	Slug             string              `json:"slug,omitempty"`
	Type             string              `json:"type,omitempty"`
	Status           string              `json:"status,omitempty"`
	Description      string              `json:"description,omitempty"`
	ShortDescription string              `json:"short_description,omitempty"`
	Sku              string              `json:"sku,omitempty"`
	RegularPrice     string              `json:"regular_price,omitempty"`
	ManageStock      bool                `json:"manage_stock,omitempty"`
	StockStatus      string              `json:"stock_status,omitempty"`
	Categories       []*Categories       `json:"categories,omitempty"`
	Images           []*ProductImage     `json:"images,omitempty"`
	Attributes       []*ProductAttribute `json:"attributes,omitempty"`
	MetaData         []*MetaData         `json:"meta_data,omitempty"`
}

type ProductImage struct {
	ID  int64  `json:"id,omitempty"`
	Src string `json:"src,omitempty"`
	Alt string `json:"alt,omitempty"`
}

type Categories struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

type ProductAttribute struct {
	ID        int64    `json:"id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Visible   bool     `json:"visible,omitempty"`
	Variation bool     `json:"variation,omitempty"`
	Options   []string `json:"options,omitempty"`
}

type MetaData struct {
	ID    int64       `json:"id,omitempty"`
	Key   string      `json:"key,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

const (
	PRODUCT_TYPE_VARIABLE = "variable"

	PRODUCT_STATUS_PUBLISH = "publish"
	PRODUCT_STATUS_DRAFT   = "draft"

	STOCK_STATUS_INSTOCK    = "instock"
	STOCK_STATUS_OUTOFSTOCK = "outofstock"
)
