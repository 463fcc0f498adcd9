// Package users wraps the account endpoints: CRUD for administrators, the
// current profile, password login and impersonation token issuance.
package users

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"nathanbeddoewebdev/panelctl/internal/api"
	"nathanbeddoewebdev/panelctl/internal/domain"
	"nathanbeddoewebdev/panelctl/internal/session"
	"nathanbeddoewebdev/panelctl/internal/util"
)

// Requester is the subset of *api.Client the service needs.
type Requester interface {
	Get(ctx context.Context, endpoint string, query url.Values) (*api.Response, error)
	Post(ctx context.Context, endpoint string, body any) (*api.Response, error)
	Patch(ctx context.Context, endpoint string, body any) (*api.Response, error)
	Delete(ctx context.Context, endpoint string) (*api.Response, error)
}

// ErrNoToken is returned when a login or impersonation response carries no
// token.
var ErrNoToken = errors.New("response did not include a token")

// ListOptions filters a user listing. Zero values are omitted.
type ListOptions struct {
	Page    int
	PerPage int
	Search  string
	Role    string
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
	if o.Role != "" {
		q.Set("role", o.Role)
	}
	return q
}

// CreateOpts is the payload for creating an account.
type CreateOpts struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role,omitempty"`
	PartnerID string `json:"partner_id,omitempty"`
}

// UpdateOpts changes only the fields that are set.
type UpdateOpts struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Role      *string `json:"role,omitempty"`
	PartnerID *string `json:"partner_id,omitempty"`
}

// TokenGrant is what login and impersonation return: a bearer token and the
// account it acts as.
type TokenGrant struct {
	Token string
	User  domain.User
}

// Profile converts the granted user into the profile the session stores.
func (g *TokenGrant) Profile() session.User {
	return Profile(g.User)
}

// Profile converts an account into a session profile.
func Profile(u domain.User) session.User {
	return session.User{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		PartnerID: u.PartnerID.String(),
	}
}

// Service calls the user endpoints.
type Service struct {
	api Requester
}

// NewService returns a Service that issues requests through r.
func NewService(r Requester) *Service {
	return &Service{api: r}
}

// Login exchanges credentials for a token. It does not touch the session;
// the caller stores the grant.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenGrant, error) {
	if err := util.ValidateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	resp, err := s.api.Post(ctx, "/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return decodeGrant(resp)
}

// Me returns the account the active token belongs to.
func (s *Service) Me(ctx context.Context) (*domain.User, error) {
	resp, err := s.api.Get(ctx, "/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	return decodeUser(resp)
}

// Impersonate asks the API for a token acting as user id. Only
// administrators may call it.
func (s *Service) Impersonate(ctx context.Context, id string) (*TokenGrant, error) {
	resp, err := s.api.Post(ctx, "/admin/users/"+url.PathEscape(id)+"/impersonate", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to impersonate user %s: %w", id, err)
	}
	return decodeGrant(resp)
}

// List returns one page of users.
func (s *Service) List(ctx context.Context, opts ListOptions) (*domain.Page[domain.User], error) {
	resp, err := s.api.Get(ctx, "/users", opts.query())
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	var page domain.Page[domain.User]
	if err := resp.DecodeBody(&page); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &page, nil
}

// Get returns a single user.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	resp, err := s.api.Get(ctx, userPath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return decodeUser(resp)
}

// Create adds an account.
func (s *Service) Create(ctx context.Context, opts CreateOpts) (*domain.User, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := util.ValidateEmail(opts.Email); err != nil {
		return nil, err
	}

	resp, err := s.api.Post(ctx, "/users", opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return decodeUser(resp)
}

// Update changes an account.
func (s *Service) Update(ctx context.Context, id string, opts UpdateOpts) (*domain.User, error) {
	if opts.Email != nil {
		if err := util.ValidateEmail(*opts.Email); err != nil {
			return nil, err
		}
	}
	resp, err := s.api.Patch(ctx, userPath(id), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return decodeUser(resp)
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Delete(ctx, userPath(id)); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}

func decodeUser(resp *api.Response) (*domain.User, error) {
	var u domain.User
	if err := resp.Decode(&u); err != nil {
		return nil, err
	}
	if u.ID == "" && u.Email == "" {
		return nil, fmt.Errorf("user response has no data (HTTP %d)", resp.StatusCode)
	}
	return &u, nil
}

// grantPayload accepts the token field names the API has used over time.
type grantPayload struct {
	Token       string      `json:"token"`
	AccessToken string      `json:"access_token"`
	User        domain.User `json:"user"`
}

func decodeGrant(resp *api.Response) (*TokenGrant, error) {
	var p grantPayload
	if err := resp.Decode(&p); err != nil {
		return nil, err
	}
	token := p.Token
	if token == "" {
		token = p.AccessToken
	}
	if token == "" {
		return nil, fmt.Errorf("%w (HTTP %d)", ErrNoToken, resp.StatusCode)
	}
	return &TokenGrant{Token: token, User: p.User}, nil
}
