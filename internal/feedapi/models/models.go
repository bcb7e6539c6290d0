package models

// Product is one record of the vendor's full feed export.
type Product struct {
	ID             int64   `json:"id"`
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	BrandName      string  `json:"brand_name"`
	ImageFullURL   string  `json:"image_full_url"`
	SizeMapperName string  `json:"size_mapper_name"`
	Sizes          []*Size `json:"sizes"`
}

// Size is one size/offer pairing under a feed product.
type Size struct {
	SizeEU     string  `json:"size_eu"`
	SizeUS     string  `json:"size_us"`
	Quantity   int     `json:"quantity"`
	OfferPrice float64 `json:"offer_price"`
}

// VariationSKU derives the store-side variation SKU for a size of a parent
// product. The vendor feed carries no per-size SKU of its own.
func (s *Size) VariationSKU(parentSKU string) string {
	return parentSKU + "-" + s.SizeEU
}
