package sales

import (
	"fmt"
	"time"
)

// PaymentMethod enumerates the accepted tender types.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCredit PaymentMethod = "CREDIT"
	PaymentDebit  PaymentMethod = "DEBIT"
	PaymentPix    PaymentMethod = "PIX"
)

// Status is the sale lifecycle state. COMPLETED is the landing state of
// creation; CANCELED and REFUNDED are terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
	StatusRefunded  Status = "REFUNDED"
)

// Sale is one point-of-sale transaction. Monetary values are stored in
// centavos.
type Sale struct {
	ID            string        `json:"id"`
	CompanyID     string        `json:"companyId"`
	StoreID       string        `json:"storeId"`
	UserID        string        `json:"userId"`
	CustomerID    *string       `json:"customerId,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        Status        `json:"status"`
	Total         int64         `json:"total"`
	Discount      int64         `json:"discount"`
	FinalTotal    int64         `json:"finalTotal"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// SaleItem is one line of a sale. UnitPrice snapshots the product's
// sale price at purchase time.
type SaleItem struct {
	ID        string `json:"id"`
	SaleID    string `json:"saleId"`
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Subtotal  int64  `json:"subtotal"`
}

// SaleWithItems bundles a sale with its lines.
type SaleWithItems struct {
	Sale
	Items []SaleItem `json:"items"`
}

// StockError reports a stock decrement that lost the race against a
// concurrent sale of the same product.
type StockError struct {
	ProductID string
	Available int64
	Requested int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}
