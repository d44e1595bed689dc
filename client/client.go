package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Project-OSRM/osrm-contract-tests/fixture"
	"github.com/Project-OSRM/osrm-contract-tests/framework"
	"github.com/Project-OSRM/osrm-contract-tests/servicedef"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 5 * time.Second

	contentTypeJSON        = "application/json"
	contentTypeFlatbuffers = "application/x-flatbuffers"
)

type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
}

// Client sends queries to the server under test. A query that exceeds its timeouts fails; it is
// never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(host string, port int, timeouts Timeouts) *Client {
	if timeouts.Connect <= 0 {
		timeouts.Connect = DefaultConnectTimeout
	}
	if timeouts.Read <= 0 {
		timeouts.Read = DefaultReadTimeout
	}
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: timeouts.Connect}).DialContext,
		ResponseHeaderTimeout: timeouts.Read,
		// every scenario starts a new server, so pooled connections would be stale
		DisableKeepAlives: true,
	}
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeouts.Connect + timeouts.Read,
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is the raw answer to a query.
type Response struct {
	URL         string
	Status      int
	ContentType string
	Body        []byte
}

// IsFlatbuffers returns true if the response body is in the binary format.
func (r Response) IsFlatbuffers() bool {
	return r.ContentType == contentTypeFlatbuffers
}

// Get sends a query. The path is relative to the server's base URL and may include a query
// string. An HTTP error status is not an error here; only failing to get an answer is.
func (c *Client) Get(ctx context.Context, path string, logger framework.Logger) (Response, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	url := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	logger.Printf("GET %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, &TransportError{URL: url, Err: err}
	}
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &TransportError{URL: url, Err: fmt.Errorf("error reading response body: %w", err)}
	}
	contentType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	logger.Printf("HTTP %d, %s, %d bytes in %s", resp.StatusCode, contentType, len(body),
		time.Since(started).Round(time.Millisecond))
	return Response{URL: url, Status: resp.StatusCode, ContentType: contentType, Body: body}, nil
}

// Nearest snaps a location to the road network. A non-200 answer is returned as a *QueryFailure.
func (c *Client) Nearest(
	ctx context.Context,
	profile string,
	location fixture.Location,
	flatbuffers bool,
	params servicedef.Params,
	logger framework.Logger,
) (servicedef.NearestResult, error) {
	resp, err := c.Get(ctx, servicedef.NearestPath(profile, location, flatbuffers, params), logger)
	if err != nil {
		return servicedef.NearestResult{}, err
	}
	if err := failure(resp); err != nil {
		return servicedef.NearestResult{}, err
	}
	if resp.IsFlatbuffers() {
		return DecodeNearestFlatbuffers(resp.Body)
	}
	return DecodeNearestJSON(resp.Body)
}

// Route requests a route through the waypoints. A non-200 answer is returned as a *QueryFailure.
func (c *Client) Route(
	ctx context.Context,
	profile string,
	waypoints []fixture.Location,
	flatbuffers bool,
	params servicedef.Params,
	logger framework.Logger,
) (servicedef.RouteResult, error) {
	return c.RouteRaw(ctx, servicedef.RoutePath(profile, waypoints, flatbuffers, params), logger)
}

// RouteRaw sends a route query whose path was written out by hand, so that malformed requests can
// be tested.
func (c *Client) RouteRaw(ctx context.Context, path string, logger framework.Logger) (servicedef.RouteResult, error) {
	resp, err := c.Get(ctx, path, logger)
	if err != nil {
		return servicedef.RouteResult{}, err
	}
	if err := failure(resp); err != nil {
		return servicedef.RouteResult{}, err
	}
	if resp.IsFlatbuffers() {
		return DecodeRouteFlatbuffers(resp.Body)
	}
	return DecodeRouteJSON(resp.Body)
}

// failure returns a *QueryFailure for a non-200 response, or a *DecodeError if its body can't be
// decoded.
func failure(resp Response) error {
	if resp.Status == http.StatusOK {
		return nil
	}
	var result servicedef.ErrorResult
	var err error
	if resp.IsFlatbuffers() {
		result, err = DecodeErrorFlatbuffers(resp.Body)
	} else {
		result, err = DecodeErrorJSON(resp.Body)
	}
	if err != nil {
		return err
	}
	return &QueryFailure{URL: resp.URL, Status: resp.Status, Result: result}
}
