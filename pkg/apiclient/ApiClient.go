package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rest"
	"github.com/adampresley/adamgokit/rest/calloptions"
	"github.com/adampresley/adamgokit/rest/clientoptions"
)

const (
	DefaultUserID = "user-test-123"
	UserIDHeader  = "x-user-id"
)

type Requester interface {
	Call(ctx context.Context, path string, options CallOptions, result any) error
	GetObject(ctx context.Context, url string) (io.ReadCloser, error)
	PutObject(ctx context.Context, url, contentType string, body io.Reader, size int64) error
}

/*
CallOptions configures a single backend call. Method defaults to GET.
Headers are merged over the default headers key by key. Body, when
not nil, is encoded as JSON.
*/
type CallOptions struct {
	Method  string
	Headers map[string]string
	Body    any
}

type ClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	UserID     string
}

type Client struct {
	httpClient *http.Client
	settings   *clientoptions.ClientOptions
	userID     string
}

func NewClient(config ClientConfig) Client {
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}

	if config.UserID == "" {
		config.UserID = DefaultUserID
	}

	result := Client{
		httpClient: config.HTTPClient,
		userID:     config.UserID,
	}

	result.settings = clientoptions.New(
		strings.TrimRight(config.BaseURL, "/"),
		clientoptions.WithHeaders(result.DefaultHeaders()),
		clientoptions.WithHttpClient(config.HTTPClient),
	)

	return result
}

/*
DefaultHeaders are sent with every backend call. The static user
header stands in for real authentication.
*/
func (c Client) DefaultHeaders() map[string]string {
	return map[string]string{
		UserIDHeader:   c.userID,
		"Content-Type": "application/json",
	}
}

/*
contextClient binds a call's context to the requests the rest package
builds, which carry none of their own.
*/
type contextClient struct {
	ctx    context.Context
	client httphelpers.HttpClient
}

func (c contextClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req.WithContext(c.ctx))
}

/*
Call sends a single request to the backend and decodes the JSON
response into result. Nothing is retried.
*/
func (c Client) Call(ctx context.Context, path string, options CallOptions, result any) error {
	var (
		err        error
		body       io.Reader
		b          []byte
		httpResult rest.HttpResult
	)

	method := options.Method

	if method == "" {
		method = http.MethodGet
	}

	if options.Body != nil {
		if b, err = json.Marshal(options.Body); err != nil {
			return fmt.Errorf("error encoding request body for %s %s: %w", method, path, err)
		}

		body = bytes.NewReader(b)
	}

	settings := *c.settings
	settings.HttpClient = contextClient{ctx: ctx, client: c.settings.HttpClient}
	callHeaders := calloptions.WithCallHeaders(options.Headers)

	switch method {
	case http.MethodGet:
		_, httpResult, err = rest.Get[json.RawMessage](&settings, path, callHeaders)
	case http.MethodPost:
		_, httpResult, err = rest.Post[json.RawMessage](&settings, path, body, callHeaders)
	case http.MethodPut:
		_, httpResult, err = rest.Put[json.RawMessage](&settings, path, body, callHeaders)
	case http.MethodPatch:
		_, httpResult, err = rest.Patch[json.RawMessage](&settings, path, body, callHeaders)
	case http.MethodDelete:
		_, httpResult, err = rest.Delete[json.RawMessage](&settings, path, callHeaders)
	default:
		return fmt.Errorf("unsupported method %s for %s", method, path)
	}

	/*
	 * No status means the request never got a response. A nil body
	 * means the response could not be read.
	 */
	if httpResult.StatusCode == 0 || (err != nil && httpResult.Body == nil) {
		return &Error{Kind: KindNetwork, StatusCode: httpResult.StatusCode, Message: err.Error(), Err: err}
	}

	if !httphelpers.IsSuccessRange(httpResult.StatusCode) {
		return &Error{
			Kind:       KindBackend,
			StatusCode: httpResult.StatusCode,
			Message:    errorMessage(httpResult.StatusCode, httpResult.Body),
		}
	}

	if result == nil || len(bytes.TrimSpace(httpResult.Body)) == 0 {
		return nil
	}

	if err = json.Unmarshal(httpResult.Body, result); err != nil {
		return &Error{
			Kind:       KindBackend,
			StatusCode: httpResult.StatusCode,
			Message:    fmt.Sprintf("invalid JSON response: %s", err.Error()),
			Err:        err,
		}
	}

	return nil
}

/*
PutObject writes body directly to a presigned storage location. No
backend headers are sent. The request carries an exact Content-Length
because presigned PUTs reject chunked bodies.
*/
func (c Client) PutObject(ctx context.Context, url, contentType string, body io.Reader, size int64) error {
	var (
		err      error
		req      *http.Request
		response *http.Response
	)

	if req, err = http.NewRequestWithContext(ctx, http.MethodPut, url, body); err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}

	if size >= 0 {
		req.ContentLength = size
	}

	req.Header.Set("Content-Type", contentType)

	if response, err = c.httpClient.Do(req); err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}

	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	if !httphelpers.IsSuccessRange(response.StatusCode) {
		return &Error{
			Kind:       KindTransfer,
			StatusCode: response.StatusCode,
			Message:    fmt.Sprintf("Upload failed: %d", response.StatusCode),
		}
	}

	return nil
}

/*
GetObject reads an object directly from a presigned storage location.
The caller closes the returned body.
*/
func (c Client) GetObject(ctx context.Context, url string) (io.ReadCloser, error) {
	var (
		err      error
		req      *http.Request
		response *http.Response
	)

	if req, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil); err != nil {
		return nil, &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}

	if response, err = c.httpClient.Do(req); err != nil {
		return nil, &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}

	if !httphelpers.IsSuccessRange(response.StatusCode) {
		_, _ = io.Copy(io.Discard, response.Body)
		response.Body.Close()

		return nil, &Error{
			Kind:       KindTransfer,
			StatusCode: response.StatusCode,
			Message:    fmt.Sprintf("Download failed: %d", response.StatusCode),
		}
	}

	return response.Body, nil
}

func errorMessage(status int, body []byte) string {
	var (
		parsed struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
	)

	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}

		if parsed.Error != "" {
			return parsed.Error
		}
	}

	return fmt.Sprintf("HTTP %d", status)
}
