package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/flixreview/go-flixreview-client/tokens"
)

const defaultTimeout = 30 * time.Second

// Client wraps outbound HTTP calls to the FlixReview API: it attaches the
// stored bearer token, tags every request with an X-Request-ID, and unwraps
// the {success, message, data} response envelope.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  tokens.Store
	log     zerolog.Logger
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (primarily for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the transport timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New initializes a Client for the given API base URL. The token store is
// consulted on every request; an absent pair simply means the call goes out
// unauthenticated.
func New(baseURL string, store tokens.Store, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[api.New] baseURL is required")
	}
	if store == nil {
		return nil, errors.New("[api.New] token store is required")
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  store,
		log:     log.Logger,
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// Get performs a GET request, decoding the (unwrapped) response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	reader, err := jsonBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, nil, reader, "application/json", out)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	reader, err := jsonBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, nil, reader, "application/json", out)
}

// Delete performs a DELETE request. out may be nil for 204 responses.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", out)
}

// PatchMultipart performs a PATCH with a multipart form, used for profile
// picture uploads where a file rides along with regular fields.
func (c *Client) PatchMultipart(ctx context.Context, path string, fields map[string]string, fileField, filename string, file io.Reader, out any) error {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for key, val := range fields {
		if err := writer.WriteField(key, val); err != nil {
			return errors.Wrap(err, "[Client.PatchMultipart] write field")
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			return errors.Wrap(err, "[Client.PatchMultipart] create form file")
		}
		if _, err := io.Copy(part, file); err != nil {
			return errors.Wrap(err, "[Client.PatchMultipart] copy file")
		}
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "[Client.PatchMultipart] close writer")
	}
	return c.do(ctx, http.MethodPatch, path, nil, buf, writer.FormDataContentType(), out)
}

func jsonBody(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "[api] marshal request body")
	}
	return bytes.NewReader(data), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrap(err, "[Client.do] build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if pair, err := c.tokens.Load(); err == nil && pair.Access != "" {
		req.Header.Set("Authorization", "Bearer "+pair.Access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("API request")

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, respBody)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := unwrap(respBody, out); err != nil {
		return errors.Wrap(err, "[Client.do] decode response")
	}
	return nil
}
