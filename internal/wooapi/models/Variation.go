package models

// Variation is the products/{id}/variations endpoint payload.
type Variation struct {
	ID            int64                 `json:"id,omitempty"`
	Sku           string                `json:"sku,omitempty"`
	RegularPrice  string                `json:"regular_price,omitempty"`
	ManageStock   bool                  `json:"manage_stock,omitempty"`
	StockQuantity *int                  `json:"stock_quantity,omitempty"`
	StockStatus   string                `json:"stock_status,omitempty"`
	Attributes    []*VariationAttribute `json:"attributes,omitempty"`
	Image         *ProductImage         `json:"image,omitempty"`
}

type VariationAttribute struct {
	ID     int64  `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Option string `json:"option,omitempty"`
}
