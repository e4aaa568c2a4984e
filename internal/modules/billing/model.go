package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Invoice is a point-in-time billing snapshot of an order. The total is
// captured when the invoice is generated and never recomputed, even if the
// order or the pricing configuration changes afterwards.
type Invoice struct {
	ID       int64     `json:"id"`
	Number   string    `json:"number"`
	OrderID  int64     `json:"order_id"`
	Total    float64   `json:"total"`
	Currency string    `json:"currency"`
	IssuedAt time.Time `json:"issued_at"`
}

// GenerateRequest is the payload for issuing an invoice.
type GenerateRequest struct {
	OrderID int64 `json:"order_id"`
}

// newInvoiceNumber creates a human-readable invoice number: INV-YYYYMMDD-XXXX.
func newInvoiceNumber(issued time.Time) string {
	date := issued.UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("INV-%s-%s", date, suffix)
}
