// ABOUTME: HTTP client for the contact manager API
// ABOUTME: Attaches the session token and maps HTTP failures to typed errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// TokenSource provides the current session token, empty when logged out.
// The session store implements this; the client never mutates the session.
type TokenSource interface {
	Token() string
}

// Client is the API client for the contact manager backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides the transport timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates an API client for the given base URL. tokens may be nil for
// a client that only calls the auth endpoints.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Contact is a single contact record. ID is assigned by the backend on
// creation and immutable afterwards.
type Contact struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// Contact status values as the backend reports them
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Page is one server-paginated slice of the contact collection.
// TotalElements is the server-side count across all pages.
type Page struct {
	Content       []Contact `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
}

type authRequest struct {
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

// errorResponse is the backend's error body shape
type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Authenticate calls POST /api/v1/auth/authenticate and returns the token
func (c *Client) Authenticate(ctx context.Context, email, password string) (string, error) {
	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/authenticate", authRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register calls POST /api/v1/auth/register and returns the token
func (c *Client) Register(ctx context.Context, firstname, lastname, email, password string) (string, error) {
	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", authRequest{
		Firstname: firstname,
		Lastname:  lastname,
		Email:     email,
		Password:  password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListContacts calls GET /api/v1/contacts?page=&size=
func (c *Client) ListContacts(ctx context.Context, page, size int) (*Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var result Page
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/contacts?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetContact calls GET /api/v1/contacts/{id}
func (c *Client) GetContact(ctx context.Context, id string) (*Contact, error) {
	var contact Contact
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/contacts/"+url.PathEscape(id), nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// CreateContact calls POST /api/v1/contacts and returns the record with
// its server-assigned id
func (c *Client) CreateContact(ctx context.Context, contact *Contact) (*Contact, error) {
	var created Contact
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/contacts", contact, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateContact calls PUT /api/v1/contacts/{id} with the full record
func (c *Client) UpdateContact(ctx context.Context, contact *Contact) (*Contact, error) {
	var updated Contact
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/contacts/"+url.PathEscape(contact.ID), contact, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdatePhoto calls PUT /api/v1/contacts/photo with a multipart body of
// id + file and returns the stored photo URL
func (c *Client) UpdatePhoto(ctx context.Context, id, filename string, photo io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("id", id); err != nil {
		return "", fmt.Errorf("failed to build photo upload: %w", err)
	}
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("failed to build photo upload: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return "", fmt.Errorf("failed to read photo file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build photo upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/api/v1/contacts/photo", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.handleErrorResponse(resp)
	}

	// The backend returns the photo URL as a plain text body
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("invalid response from backend: %w", err)
	}
	return string(data), nil
}

// DeleteContact calls DELETE /api/v1/contacts/{id}
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/v1/contacts/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp)
	}
	return nil
}

// newRequest builds a request with the bearer token and a request id attached
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// doJSON performs a request with an optional JSON body and decodes the
// JSON response into out. Each call is attempted exactly once; retry
// policy belongs to callers.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts transport and context errors into a network
// API error with a user-friendly message
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	msg := fmt.Sprintf("cannot connect to backend at %s", c.baseURL)
	if ctx.Err() == context.Canceled {
		msg = "request canceled"
	} else if ctx.Err() == context.DeadlineExceeded {
		msg = "request timed out"
	}
	return &APIError{Kind: KindNetwork, Message: msg}
}

// handleErrorResponse parses an error body and classifies the status
func (c *Client) handleErrorResponse(resp *http.Response) error {
	apiErr := &APIError{
		Kind:       classify(resp.StatusCode),
		StatusCode: resp.StatusCode,
	}

	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		apiErr.Message = errResp.Message
		apiErr.Fields = errResp.Errors
	}
	return apiErr
}
