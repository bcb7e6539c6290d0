package models

// ProductBatchRequest is the body of POST products/batch. Empty sections are
// omitted from the wire payload.
type ProductBatchRequest struct {
	Create []*Product `json:"create,omitempty"`
	Update []*Product `json:"update,omitempty"`
}

func (r *ProductBatchRequest) Empty() bool {
	return len(r.Create) == 0 && len(r.Update) == 0
}

// ProductBatchResponse mirrors the request: one result per submitted item, in
// submission order. An entry carries either a remote id or an error object.
type ProductBatchResponse struct {
	Create []*ProductBatchResult `json:"create"`
	Update []*ProductBatchResult `json:"update"`
}

type ProductBatchResult struct {
	ID    int64       `json:"id"`
	Sku   string      `json:"sku"`
	Error *BatchError `json:"error,omitempty"`
}

// Succeeded reports a definite success indicator: a remote id and no error.
func (r *ProductBatchResult) Succeeded() bool {
	return r.Error == nil && r.ID > 0
}

// VariationBatchRequest is the body of POST products/{id}/variations/batch.
type VariationBatchRequest struct {
	Create []*Variation `json:"create,omitempty"`
	Update []*Variation `json:"update,omitempty"`
}

func (r *VariationBatchRequest) Empty() bool {
	return len(r.Create) == 0 && len(r.Update) == 0
}

type VariationBatchResponse struct {
	Create []*VariationBatchResult `json:"create"`
	Update []*VariationBatchResult `json:"update"`
}

type VariationBatchResult struct {
	ID    int64       `json:"id"`
	Sku   string      `json:"sku"`
	Error *BatchError `json:"error,omitempty"`
}

func (r *VariationBatchResult) Succeeded() bool {
	return r.Error == nil && r.ID > 0
}

type BatchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
