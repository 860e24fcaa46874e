package products

import "time"

// Product is a sellable item scoped to a company and a store. Monetary values
// are integers in the smallest currency unit (centavos). Quantity is the
// on-hand stock count and is only ever decremented through a completed sale.
type Product struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	StoreID    string    `json:"storeId"`
	CategoryID *string   `json:"categoryId,omitempty"`
	Name       string    `json:"name"`
	Barcode    *string   `json:"barcode,omitempty"`
	SalePrice  int64     `json:"salePrice"`
	CostPrice  int64     `json:"costPrice"`
	Quantity   int64     `json:"quantity"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
