// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package superset is a client for the parts of the Superset REST API
// used to check a deployment: the web root, database login and the
// chart listing.
package superset

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/juju/errors"

	"github.com/canonical/superset-k8s-upgrade/core/logger"
)

const (
	loginPath  = "/api/v1/security/login"
	chartsPath = "/api/v1/chart/"

	// ProviderDB authenticates against users stored in the Superset
	// database.
	ProviderDB = "db"
)

// Credentials are a Superset user's login details.
type Credentials struct {
	Username string
	Password string
}

// Validate validates the credentials.
func (c Credentials) Validate() error {
	if c.Username == "" {
		return errors.NotValidf("empty username")
	}
	if c.Password == "" {
		return errors.NotValidf("empty password")
	}
	return nil
}

// Token is a bearer access token. It is only held for the requests of a
// single check and never stored.
type Token string

// Header returns the Authorization header carrying the token.
func (t Token) Header() http.Header {
	h := make(http.Header)
	h.Set("Authorization", "Bearer "+string(t))
	return h
}

// Chart is a chart summary as listed by the API.
type Chart struct {
	ID        int    `json:"id"`
	SliceName string `json:"slice_name"`
	VizType   string `json:"viz_type"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Provider string `json:"provider"`
	Refresh  bool   `json:"refresh"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type chartsResponse struct {
	Count  int     `json:"count"`
	Result []Chart `json:"result"`
}

// Config configures a Client.
type Config struct {
	// URL is the root of the Superset web server.
	URL string

	// Transport defaults to DefaultHTTPTransport without a recorder.
	Transport Transport
	Logger    logger.Logger
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.URL == "" {
		return errors.NotValidf("empty URL")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return errors.NotValidf("URL %q", c.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NotValidf("URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.NotValidf("URL %q without host", c.URL)
	}
	if c.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

// Client talks to a Superset web server.
type Client struct {
	base      *url.URL
	requester *APIRequester
	rest      RESTClient
	logger    logger.Logger
}

// NewClient returns a Client for the configured server.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	base, _ := url.Parse(config.URL)
	transport := config.Transport
	if transport == nil {
		transport = DefaultHTTPTransport(config.Logger, nil)
	}
	requester := NewAPIRequester(transport, config.Logger)
	return &Client{
		base:      base,
		requester: requester,
		rest:      NewHTTPRESTClient(base, requester, nil),
		logger:    config.Logger,
	}, nil
}

// Ping makes an unauthenticated GET of the web root, following
// redirects, and requires a 200 response.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath("/").String(), nil)
	if err != nil {
		return errors.Annotate(err, "can not make new request")
	}
	resp, err := c.requester.Do(req)
	if err != nil {
		return errors.Annotatef(err, "pinging %s", c.base)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("pinging %s: got status %d, want %d", c.base, resp.StatusCode, http.StatusOK)
	}
	c.logger.Debugf("%s is up", c.base)
	return nil
}

// Login authenticates with the database provider and returns an access
// token.
func (c *Client) Login(ctx context.Context, creds Credentials) (Token, error) {
	if err := creds.Validate(); err != nil {
		return "", errors.Trace(err)
	}
	var resp loginResponse
	if _, err := c.rest.Post(ctx, loginPath, nil, loginRequest{
		Username: creds.Username,
		Password: creds.Password,
		Provider: ProviderDB,
		Refresh:  true,
	}, &resp); err != nil {
		return "", errors.Annotatef(err, "logging in as %q", creds.Username)
	}
	if resp.AccessToken == "" {
		return "", errors.Unauthorizedf("logging in as %q: empty access token", creds.Username)
	}
	c.logger.Debugf("logged in to %s as %q", c.base, creds.Username)
	return Token(resp.AccessToken), nil
}

// Charts lists the charts visible to the token's user.
func (c *Client) Charts(ctx context.Context, token Token) ([]Chart, error) {
	if token == "" {
		return nil, errors.Unauthorizedf("listing charts without a token")
	}
	var resp chartsResponse
	if _, err := c.rest.Get(ctx, chartsPath, token.Header(), &resp); err != nil {
		return nil, errors.Annotate(err, "listing charts")
	}
	return resp.Result, nil
}

// ChartCount returns the number of charts in the first page of the
// listing.
func (c *Client) ChartCount(ctx context.Context, token Token) (int, error) {
	charts, err := c.Charts(ctx, token)
	if err != nil {
		return 0, errors.Trace(err)
	}
	return len(charts), nil
}
