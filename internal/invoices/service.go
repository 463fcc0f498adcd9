// Package invoices wraps the billing endpoints, including the PDF download.
package invoices

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"nathanbeddoewebdev/panelctl/internal/api"
	"nathanbeddoewebdev/panelctl/internal/domain"
)

// Requester is the subset of *api.Client the service needs.
type Requester interface {
	Get(ctx context.Context, endpoint string, query url.Values) (*api.Response, error)
	Post(ctx context.Context, endpoint string, body any) (*api.Response, error)
	Put(ctx context.Context, endpoint string, body any) (*api.Response, error)
	Delete(ctx context.Context, endpoint string) (*api.Response, error)
	Download(ctx context.Context, endpoint string) (*api.File, error)
}

// ListOptions filters an invoice listing. Zero values are omitted.
type ListOptions struct {
	Page    int
	PerPage int
	Status  string
	UserID  string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(o.PerPage))
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.UserID != "" {
		q.Set("user_id", o.UserID)
	}
	return q
}

// Input is the payload for creating or replacing an invoice.
type Input struct {
	UserID   string               `json:"user_id"`
	Currency string               `json:"currency,omitempty"`
	DueAt    string               `json:"due_at,omitempty"` // YYYY-MM-DD
	Status   string               `json:"status,omitempty"`
	Items    []domain.InvoiceItem `json:"items"`
}

// Service calls the invoice endpoints.
type Service struct {
	api Requester
}

// NewService returns a Service that issues requests through r.
func NewService(r Requester) *Service {
	return &Service{api: r}
}

// List returns one page of invoices.
func (s *Service) List(ctx context.Context, opts ListOptions) (*domain.Page[domain.Invoice], error) {
	resp, err := s.api.Get(ctx, "/invoices", opts.query())
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	var page domain.Page[domain.Invoice]
	if err := resp.DecodeBody(&page); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return &page, nil
}

// Get returns a single invoice with its items.
func (s *Service) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	resp, err := s.api.Get(ctx, invoicePath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice %s: %w", id, err)
	}
	return decodeInvoice(resp)
}

// Create issues a new invoice.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Invoice, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	resp, err := s.api.Post(ctx, "/invoices", in)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return decodeInvoice(resp)
}

// Update replaces an invoice.
func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Invoice, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	resp, err := s.api.Put(ctx, invoicePath(id), in)
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice %s: %w", id, err)
	}
	return decodeInvoice(resp)
}

// Delete removes an invoice.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Delete(ctx, invoicePath(id)); err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", id, err)
	}
	return nil
}

// DownloadPDF fetches the rendered invoice. The file name falls back to
// "invoice-<id>.pdf" when the API does not send one.
func (s *Service) DownloadPDF(ctx context.Context, id string) (*api.File, error) {
	f, err := s.api.Download(ctx, invoicePath(id)+"/pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to download invoice %s: %w", id, err)
	}
	if f.Filename == "" {
		f.Filename = "invoice-" + id + ".pdf"
	}
	return f, nil
}

func (in Input) validate() error {
	if in.UserID == "" {
		return fmt.Errorf("invoice requires a user id")
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("invoice requires at least one item")
	}
	for i, item := range in.Items {
		if item.Description == "" {
			return fmt.Errorf("item %d: description is required", i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive", i+1)
		}
	}
	return nil
}

func invoicePath(id string) string {
	return "/invoices/" + url.PathEscape(id)
}

func decodeInvoice(resp *api.Response) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := resp.Decode(&inv); err != nil {
		return nil, err
	}
	return &inv, nil
}
