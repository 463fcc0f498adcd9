// Package servers wraps the server lifecycle endpoints of the dashboard API.
package servers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"nathanbeddoewebdev/panelctl/internal/api"
	"nathanbeddoewebdev/panelctl/internal/domain"
	"nathanbeddoewebdev/panelctl/internal/util"
)

// Requester is the subset of *api.Client the service needs.
type Requester interface {
	Get(ctx context.Context, endpoint string, query url.Values) (*api.Response, error)
	Post(ctx context.Context, endpoint string, body any) (*api.Response, error)
	Delete(ctx context.Context, endpoint string) (*api.Response, error)
}

// Lifecycle actions accepted by POST /servers/{id}/{action}.
const (
	ActionStart  = "start"
	ActionStop   = "stop"
	ActionReboot = "reboot"
)

// ListOptions filters a server listing. Zero values are omitted.
type ListOptions struct {
	Page    int
	PerPage int
	Search  string
	Status  string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(o.PerPage))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	return q
}

// CreateOpts is the payload for provisioning a server.
type CreateOpts struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Plan     string `json:"plan"`
	Location string `json:"location,omitempty"`
	Image    string `json:"image,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

var errEmptyResponse = errors.New("server response has no data")

// Service calls the server endpoints.
type Service struct {
	api Requester
}

// NewService returns a Service that issues requests through r.
func NewService(r Requester) *Service {
	return &Service{api: r}
}

// List returns one page of servers visible to the active identity.
func (s *Service) List(ctx context.Context, opts ListOptions) (*domain.Page[domain.Server], error) {
	resp, err := s.api.Get(ctx, "/servers", opts.query())
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	var page domain.Page[domain.Server]
	if err := resp.DecodeBody(&page); err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	return &page, nil
}

// Get returns a single server.
func (s *Service) Get(ctx context.Context, id string) (*domain.Server, error) {
	resp, err := s.api.Get(ctx, serverPath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get server %s: %w", id, err)
	}
	return decodeServer(resp)
}

// Create provisions a new server.
func (s *Service) Create(ctx context.Context, opts CreateOpts) (*domain.Server, error) {
	if err := util.ValidateServerName(opts.Name); err != nil {
		return nil, err
	}
	if opts.Plan == "" {
		return nil, fmt.Errorf("a plan is required")
	}
	if opts.Type == "" {
		opts.Type = "vps"
	}

	resp, err := s.api.Post(ctx, "/servers", opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	return decodeServer(resp)
}

// Start powers a server on.
func (s *Service) Start(ctx context.Context, id string) (*domain.Server, error) {
	return s.action(ctx, id, ActionStart)
}

// Stop powers a server off.
func (s *Service) Stop(ctx context.Context, id string) (*domain.Server, error) {
	return s.action(ctx, id, ActionStop)
}

// Reboot restarts a server.
func (s *Service) Reboot(ctx context.Context, id string) (*domain.Server, error) {
	return s.action(ctx, id, ActionReboot)
}

// action triggers a lifecycle action. The returned server is nil when the
// API acknowledges the action without a server object.
func (s *Service) action(ctx context.Context, id, action string) (*domain.Server, error) {
	resp, err := s.api.Post(ctx, serverPath(id)+"/"+action, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to %s server %s: %w", action, id, err)
	}
	if !isObject(resp.Data) {
		return nil, nil
	}
	return decodeServer(resp)
}

// Delete removes a server.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Delete(ctx, serverPath(id)); err != nil {
		return fmt.Errorf("failed to delete server %s: %w", id, err)
	}
	return nil
}

func serverPath(id string) string {
	return "/servers/" + url.PathEscape(id)
}

func decodeServer(resp *api.Response) (*domain.Server, error) {
	if isNull(resp.Data) {
		return nil, errEmptyResponse
	}
	var srv domain.Server
	if err := resp.Decode(&srv); err != nil {
		return nil, err
	}
	return &srv, nil
}

func isNull(raw []byte) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func isObject(raw []byte) bool {
	return len(raw) > 0 && raw[0] == '{'
}
