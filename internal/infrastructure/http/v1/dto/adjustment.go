package dto

import (
	"time"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/id"
	"stockpoint/internal/domain/adjustments"
)

// --- Request DTOs ---

// AdjustmentLineRequest is one proposed correction line.
type AdjustmentLineRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

// CreateAdjustmentRequest for creating stock adjustments.
type CreateAdjustmentRequest struct {
	Type    string                  `json:"type" binding:"required,oneof=increase decrease"`
	Reason  string                  `json:"reason" binding:"required"`
	Date    *time.Time              `json:"date"`
	Comment string                  `json:"comment"`
	Lines   []AdjustmentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToInput converts the request into a domain create input.
func (r *CreateAdjustmentRequest) ToInput() (adjustments.CreateInput, error) {
	in := adjustments.CreateInput{
		Type:    adjustments.Type(r.Type),
		Reason:  r.Reason,
		Comment: r.Comment,
	}

	if r.Date != nil {
		in.Date = *r.Date
	}

	in.Lines = make([]adjustments.LineInput, len(r.Lines))
	for i, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return in, apperror.NewValidation("invalid productId format").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		in.Lines[i] = adjustments.LineInput{
			ProductID: productID,
			Quantity:  line.Quantity,
		}
	}

	return in, nil
}

// --- Response DTOs ---

// AdjustmentLineResponse represents one correction line in API responses.
type AdjustmentLineResponse struct {
	LineID      string `json:"lineId"`
	LineNo      int    `json:"lineNo"`
	ProductID   string `json:"productId"`
	SKU         string `json:"sku"`
	Quantity    int64  `json:"quantity"`
	PreviousQty int64  `json:"previousQty"`
	NewQty      int64  `json:"newQty"`
}

// AdjustmentResponse represents an adjustment in API responses.
type AdjustmentResponse struct {
	DocumentResponse
	Type   string                   `json:"type"`
	Reason string                   `json:"reason"`
	Lines  []AdjustmentLineResponse `json:"lines"`
}

// FromAdjustment creates response from domain adjustment.
func FromAdjustment(a *adjustments.Adjustment) *AdjustmentResponse {
	resp := &AdjustmentResponse{
		DocumentResponse: FromDocument(a.Document),
		Type:             string(a.Type),
		Reason:           a.Reason,
	}

	resp.Lines = make([]AdjustmentLineResponse, len(a.Lines))
	for i, line := range a.Lines {
		resp.Lines[i] = AdjustmentLineResponse{
			LineID:      line.LineID.String(),
			LineNo:      line.LineNo,
			ProductID:   line.ProductID.String(),
			SKU:         line.SKU,
			Quantity:    line.Quantity,
			PreviousQty: line.PreviousQty,
			NewQty:      line.NewQty,
		}
	}

	return resp
}

// AdjustmentListResponse wraps a page of adjustments.
type AdjustmentListResponse struct {
	Items      []*AdjustmentResponse `json:"items"`
	TotalCount int64                 `json:"totalCount"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
}
