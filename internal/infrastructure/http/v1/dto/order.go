package dto

import (
	"time"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/id"
	"stockpoint/internal/core/types"
	"stockpoint/internal/domain/orders"
)

// --- Request DTOs ---

// OrderLineRequest is one proposed order line.
type OrderLineRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`

	// UnitPrice overrides the catalog price when set (minor units)
	UnitPrice *int64 `json:"unitPrice"`
}

// CreateOrderRequest for creating sale and purchase orders.
type CreateOrderRequest struct {
	CustomerName string             `json:"customerName"`
	SupplierID   *string            `json:"supplierId"`
	Date         *time.Time         `json:"date"`
	Comment      string             `json:"comment"`
	Lines        []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`

	// TaxRate is a percentage (10 means 10%)
	TaxRate        float64 `json:"taxRate" binding:"min=0"`
	DiscountAmount int64   `json:"discountAmount" binding:"min=0"`
	ShippingCost   int64   `json:"shippingCost" binding:"min=0"`
	PaidAmount     int64   `json:"paidAmount" binding:"min=0"`
}

// ToInput converts the request into a domain create input of the given kind.
func (r *CreateOrderRequest) ToInput(kind orders.Kind) (orders.CreateInput, error) {
	in := orders.CreateInput{
		Kind:         kind,
		CustomerName: r.CustomerName,
		Comment:      r.Comment,
		Charges: orders.Charges{
			TaxRate:        types.NewTaxRate(r.TaxRate),
			DiscountAmount: types.MinorUnits(r.DiscountAmount),
			ShippingCost:   types.MinorUnits(r.ShippingCost),
			PaidAmount:     types.MinorUnits(r.PaidAmount),
		},
	}

	if r.Date != nil {
		in.Date = *r.Date
	}

	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return in, apperror.NewValidation("invalid supplierId format").
				WithDetail("field", "supplierId")
		}
		in.SupplierID = &supplierID
	}

	in.Lines = make([]orders.LineInput, len(r.Lines))
	for i, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return in, apperror.NewValidation("invalid productId format").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		in.Lines[i] = orders.LineInput{
			ProductID: productID,
			Quantity:  line.Quantity,
		}
		if line.UnitPrice != nil {
			price := types.MinorUnits(*line.UnitPrice)
			in.Lines[i].UnitPrice = &price
		}
	}

	return in, nil
}

// --- Response DTOs ---

// OrderLineResponse represents one order line in API responses.
type OrderLineResponse struct {
	LineID    string `json:"lineId"`
	LineNo    int    `json:"lineNo"`
	ProductID string `json:"productId"`
	SKU       string `json:"sku"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	LineTotal int64  `json:"lineTotal"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	DocumentResponse
	Kind           string              `json:"kind"`
	CustomerName   string              `json:"customerName,omitempty"`
	SupplierID     *string             `json:"supplierId,omitempty"`
	SubTotal       int64               `json:"subTotal"`
	TaxRate        float64             `json:"taxRate"`
	TaxAmount      int64               `json:"taxAmount"`
	DiscountAmount int64               `json:"discountAmount"`
	ShippingCost   int64               `json:"shippingCost,omitempty"`
	TotalAmount    int64               `json:"totalAmount"`
	PaidAmount     int64               `json:"paidAmount"`
	DueAmount      int64               `json:"dueAmount"`
	ChangeAmount   int64               `json:"changeAmount,omitempty"`
	PaymentStatus  string              `json:"paymentStatus"`
	Status         string              `json:"status,omitempty"`
	DeliveredAt    *time.Time          `json:"deliveredAt,omitempty"`
	Lines          []OrderLineResponse `json:"lines"`
}

// FromOrder creates response from domain order.
func FromOrder(o *orders.Order) *OrderResponse {
	resp := &OrderResponse{
		DocumentResponse: FromDocument(o.Document),
		Kind:             string(o.Kind),
		CustomerName:     o.CustomerName,
		SubTotal:         int64(o.SubTotal),
		TaxRate:          o.TaxRate.InexactFloat64(),
		TaxAmount:        int64(o.TaxAmount),
		DiscountAmount:   int64(o.DiscountAmount),
		ShippingCost:     int64(o.ShippingCost),
		TotalAmount:      int64(o.TotalAmount),
		PaidAmount:       int64(o.PaidAmount),
		DueAmount:        int64(o.DueAmount),
		ChangeAmount:     int64(o.ChangeAmount),
		PaymentStatus:    string(o.PaymentStatus),
		Status:           string(o.Status),
		DeliveredAt:      o.DeliveredAt,
	}

	if o.SupplierID != nil {
		s := o.SupplierID.String()
		resp.SupplierID = &s
	}

	resp.Lines = make([]OrderLineResponse, len(o.Lines))
	for i, line := range o.Lines {
		resp.Lines[i] = OrderLineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			ProductID: line.ProductID.String(),
			SKU:       line.SKU,
			Quantity:  line.Quantity,
			UnitPrice: int64(line.UnitPrice),
			LineTotal: int64(line.LineTotal),
		}
	}

	return resp
}

// OrderListResponse wraps a page of orders.
type OrderListResponse struct {
	Items      []*OrderResponse `json:"items"`
	TotalCount int64            `json:"totalCount"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}
