// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package superset

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"

	"github.com/juju/errors"
	jujuhttp "github.com/juju/http/v2"
	"gopkg.in/httprequest.v1"

	"github.com/canonical/superset-k8s-upgrade/core/logger"
	"github.com/canonical/superset-k8s-upgrade/version"
)

// MIME represents a MIME type for identifying requests and response bodies.
type MIME = string

const (
	// JSON represents the MIME type for JSON request and response types.
	JSON MIME = "application/json"
)

// Transport defines a type for making the actual request.
type Transport interface {
	// Do performs the *http.Request and returns a *http.Response or an error
	// if it fails to construct the transport.
	Do(*http.Request) (*http.Response, error)
}

// DefaultHTTPTransport returns a Transport reporting every request to
// recorder.
func DefaultHTTPTransport(logger logger.Logger, recorder jujuhttp.RequestRecorder) Transport {
	options := []jujuhttp.Option{
		jujuhttp.WithLogger(logger),
	}
	if recorder != nil {
		options = append(options, jujuhttp.WithRequestRecorder(recorder))
	}
	return jujuhttp.NewClient(options...)
}

// APIRequester wraps a transport, turning failed responses into errors.
type APIRequester struct {
	transport Transport
	logger    logger.Logger
}

// NewAPIRequester creates a new APIRequester.
func NewAPIRequester(transport Transport, logger logger.Logger) *APIRequester {
	return &APIRequester{
		transport: transport,
		logger:    logger,
	}
}

// Do performs the *http.Request. Responses outside 200-204 are consumed
// and returned as errors: 401 and 403 satisfy errors.Unauthorized, 404
// errors.NotFound.
func (t *APIRequester) Do(req *http.Request) (*http.Response, error) {
	if t.logger.IsTraceEnabled() {
		if data, err := httputil.DumpRequest(req, true); err == nil {
			t.logger.Tracef("%s request %s", req.Method, data)
		} else {
			t.logger.Tracef("%s request DumpRequest error %s", req.Method, err.Error())
		}
	}

	resp, err := t.transport.Do(req)
	if err != nil {
		return nil, errors.Trace(err)
	}

	if t.logger.IsTraceEnabled() {
		if data, err := httputil.DumpResponse(resp, true); err == nil {
			t.logger.Tracef("%s response %s", req.Method, data)
		} else {
			t.logger.Tracef("%s response DumpResponse error %s", req.Method, err.Error())
		}
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode <= http.StatusNoContent {
		return resp, nil
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	message := errorMessage(resp)
	t.logger.Errorf("%s %s returned %d: %s", req.Method, req.URL.Path, resp.StatusCode, message)
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.Unauthorizedf("%s %s: %s", req.Method, req.URL.Path, message)
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NotFoundf("%s %s", req.Method, req.URL.Path)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, errors.Errorf("server error %d from %q: %s", resp.StatusCode, req.URL.String(), message)
	}
	return nil, errors.Errorf("unexpected status %d from %q: %s", resp.StatusCode, req.URL.String(), message)
}

// errorMessage extracts the "message" of a JSON error body, falling
// back to the status text.
func errorMessage(resp *http.Response) string {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != JSON {
		return http.StatusText(resp.StatusCode)
	}
	var body struct {
		Message interface{} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == nil {
		return http.StatusText(resp.StatusCode)
	}
	if s, ok := body.Message.(string); ok {
		return s
	}
	data, _ := json.Marshal(body.Message)
	return string(data)
}

// RESTResponse abstracts away the underlying response from the implementation.
type RESTResponse struct {
	StatusCode int
}

// RESTClient defines a type for making requests to a server.
type RESTClient interface {
	// Get performs GET requests to a given path.
	Get(ctx context.Context, path string, headers http.Header, result interface{}) (RESTResponse, error)
	// Post performs POST requests to a given path.
	Post(ctx context.Context, path string, headers http.Header, body, result interface{}) (RESTResponse, error)
}

// HTTPRESTClient is a RESTClient talking JSON to a single server.
type HTTPRESTClient struct {
	base      *url.URL
	transport Transport
	headers   http.Header
}

// NewHTTPRESTClient creates a new HTTPRESTClient for the server at base.
func NewHTTPRESTClient(base *url.URL, transport Transport, headers http.Header) *HTTPRESTClient {
	return &HTTPRESTClient{
		base:      base,
		transport: transport,
		headers:   headers,
	}
}

// Get makes a GET request to path, parsing the result as JSON into
// result, which may be nil if no result is desired.
func (c *HTTPRESTClient) Get(ctx context.Context, path string, headers http.Header, result interface{}) (RESTResponse, error) {
	return c.do(ctx, http.MethodGet, path, headers, nil, result)
}

// Post makes a POST request to path with body encoded as JSON, parsing
// the result as JSON into result.
func (c *HTTPRESTClient) Post(ctx context.Context, path string, headers http.Header, body, result interface{}) (RESTResponse, error) {
	buffer := new(bytes.Buffer)
	if err := json.NewEncoder(buffer).Encode(body); err != nil {
		return RESTResponse{}, errors.Trace(err)
	}
	return c.do(ctx, http.MethodPost, path, headers, buffer, result)
}

func (c *HTTPRESTClient) do(ctx context.Context, method, path string, headers http.Header, body io.Reader, result interface{}) (RESTResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return RESTResponse{}, errors.Annotate(err, "can not make new request")
	}

	req.Header = make(http.Header)
	req.Header.Set("Accept", JSON)
	if body != nil {
		req.Header.Set("Content-Type", JSON)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	c.addHeaders(req.Header, c.headers)
	c.addHeaders(req.Header, headers)

	resp, err := c.transport.Do(req)
	if err != nil {
		return RESTResponse{}, errors.Trace(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if result != nil {
		if err := httprequest.UnmarshalJSONResponse(resp, result); err != nil {
			return RESTResponse{}, errors.Annotatef(err, "superset client %s %s", method, path)
		}
	}
	return RESTResponse{
		StatusCode: resp.StatusCode,
	}, nil
}

// addHeaders adds headers in sorted key order.
func (c *HTTPRESTClient) addHeaders(dst, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range headers[k] {
			dst.Add(k, v)
		}
	}
}
