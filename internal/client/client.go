// Package client is a typed Go client for the store API. A Client owns one
// Session: Login begins it, Logout ends it, and every call that needs a
// token reads it from there.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/productstore/store-api/internal/core/domain"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSession resumes a previously stored session.
func WithSession(s Session) Option {
	return func(c *Client) {
		resumed := s
		c.session = &resumed
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		session: &Session{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a copy of the current session.
func (c *Client) Session() Session {
	return *c.session
}

// ProductInput is the payload for a new product.
type ProductInput struct {
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// ProductUpdate lists the fields to change; nil fields are left as they are.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
}

// OrderLine is one requested line of a new order.
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price,omitempty"`
}

type registerResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	body := map[string]string{"username": username, "password": password, "role": string(role)}
	var resp registerResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", false, body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login exchanges credentials for a token and begins the session. On failure
// the current session is left untouched.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	body := map[string]string{"username": username, "password": password}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", false, body, &resp); err != nil {
		return c.Session(), err
	}
	if resp.Token == "" {
		return c.Session(), errors.New("login response carried no token")
	}

	c.session.Begin(resp.Token, resp.User.Username, resp.User.Role)
	return c.Session(), nil
}

// Logout ends the session. Tokens are stateless, so the server is not called.
func (c *Client) Logout() {
	c.session.End()
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", false, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", true, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodPut, "/api/products/"+url.PathEscape(id), true, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), true, nil, nil)
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder places an order for the logged-in user.
func (c *Client) CreateOrder(ctx context.Context, lines []OrderLine) (*domain.Order, error) {
	body := struct {
		Items []OrderLine `json:"items"`
	}{Items: lines}

	var out domain.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", true, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	if authed && !c.session.Active() {
		return ErrNotLoggedIn
	}

	var payload io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			apiErr.Message = eb.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
