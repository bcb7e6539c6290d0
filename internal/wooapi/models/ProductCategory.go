package models

type ProductCategory struct {
	ID     int64  `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Slug   string `json:"slug,omitempty"`
	Parent int64  `json:"parent,omitempty"`
}
