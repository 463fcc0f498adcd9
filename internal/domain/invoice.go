package domain

import (
	"encoding/json"
	"time"
)

// Invoice states.
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
	InvoiceStatusVoid    = "void"
)

// Invoice is a billing document.
type Invoice struct {
	ID        ID            `json:"id"`
	Number    string        `json:"number"`
	Status    string        `json:"status"`
	Currency  string        `json:"currency"`
	Total     json.Number   `json:"total"`
	UserID    ID            `json:"user_id,omitempty"`
	Items     []InvoiceItem `json:"items,omitempty"`
	IssuedAt  time.Time     `json:"issued_at,omitzero"`
	DueAt     time.Time     `json:"due_at,omitzero"`
	PaidAt    *time.Time    `json:"paid_at,omitempty"`
	CreatedAt time.Time     `json:"created_at,omitzero"`
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	UnitPrice   json.Number `json:"unit_price"`
}
