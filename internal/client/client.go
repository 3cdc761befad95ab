// Package client talks to the BookSwap HTTP API and holds the state a
// front end renders: the browse list, the owner dashboard and the
// persisted session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookswap/internal/domain/model"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// Cover is an image file attached to a create or update request.
type Cover struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/register", req, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*model.User, error) {
	var out model.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBooks sends the exact-match part of filter to the server. The search
// term is applied locally by Browse.
func (c *Client) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	path := "/api/books"
	if exact := filter.Exact(); !exact.IsZero() {
		q := url.Values{}
		if exact.Genre != "" {
			q.Set("genre", exact.Genre)
		}
		if exact.Location != "" {
			q.Set("location", exact.Location)
		}
		if exact.Status != "" {
			q.Set("status", string(exact.Status))
		}
		path += "?" + q.Encode()
	}
	var out []model.Book
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error) {
	var out []model.Book
	if err := c.doJSON(ctx, http.MethodGet, "/api/books/owner/"+url.PathEscape(ownerID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (*model.Book, error) {
	var out model.Book
	if err := c.doJSON(ctx, http.MethodGet, "/api/books/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	var out model.FilterOptions
	if err := c.doJSON(ctx, http.MethodGet, "/api/books/filters", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBook(ctx context.Context, fields model.BookFields, cover *Cover) (*model.Book, error) {
	var out model.Book
	if err := c.doForm(ctx, http.MethodPost, "/api/books", fields, cover, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBook sends only the non-empty fields; cover may be nil.
func (c *Client) UpdateBook(ctx context.Context, id string, fields model.BookFields, cover *Cover) (*model.Book, error) {
	var out model.Book
	if err := c.doForm(ctx, http.MethodPut, "/api/books/"+url.PathEscape(id), fields, cover, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id string, status model.BookStatus) (*model.Book, error) {
	var out model.Book
	body := map[string]model.BookStatus{"status": status}
	if err := c.doJSON(ctx, http.MethodPut, "/api/books/"+url.PathEscape(id)+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/books/"+url.PathEscape(id), nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) doForm(ctx context.Context, method, path string, fields model.BookFields, cover *Cover, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range []struct{ name, value string }{
		{"title", fields.Title},
		{"author", fields.Author},
		{"genre", fields.Genre},
		{"location", fields.Location},
		{"contact", fields.Contact},
		{"ownerId", fields.OwnerID},
		{"description", fields.Description},
	} {
		if f.value == "" {
			continue
		}
		if err := mw.WriteField(f.name, f.value); err != nil {
			return err
		}
	}
	if fields.PublishYear != nil {
		if err := mw.WriteField("publishYear", strconv.Itoa(*fields.PublishYear)); err != nil {
			return err
		}
	}
	if cover != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="bookCover"; filename=%q`, cover.Filename))
		h.Set("Content-Type", cover.ContentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, cover.Body); err != nil {
			return fmt.Errorf("read cover: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			apiErr.Message = body.Error
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
