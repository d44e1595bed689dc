package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Project-OSRM/osrm-contract-tests/fixture"
	"github.com/Project-OSRM/osrm-contract-tests/framework"
	"github.com/Project-OSRM/osrm-contract-tests/servicedef"
	"github.com/Project-OSRM/osrm-contract-tests/servicedef/fbresult"
)

func clientFor(t *testing.T, server *httptest.Server) *Client {
	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return New(u.Hostname(), port, Timeouts{Connect: time.Second, Read: time.Second})
}

func jsonHeaders() http.Header {
	return http.Header{"Content-Type": []string{"application/json; charset=UTF-8"}}
}

var origin = fixture.Location{Latitude: 1, Longitude: 1}

func TestNearestJSON(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(
		httphelpers.HandlerWithResponse(200, jsonHeaders(), []byte(nearestJSON)))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		logger := &framework.CapturingLogger{}
		result, err := clientFor(t, server).Nearest(context.Background(), "car", origin, false,
			servicedef.NewParams("number", "1"), logger)
		require.NoError(t, err)
		require.Len(t, result.Waypoints, 1)
		assert.Equal(t, "hint-a", result.Waypoints[0].Hint)

		r := <-requests
		assert.Equal(t, "/nearest/v1/car/1.0,1.0", r.Request.URL.Path)
		assert.Equal(t, "number=1", r.Request.URL.RawQuery)
		assert.NotEmpty(t, logger.Output())
	})
}

func TestNearestFlatbuffers(t *testing.T) {
	headers := http.Header{"Content-Type": []string{"application/x-flatbuffers;charset=utf-8"}}
	handler, requests := httphelpers.RecordingHandler(
		httphelpers.HandlerWithResponse(200, headers, fbresult.Encode(nearestFlatbuffers)))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		result, err := clientFor(t, server).Nearest(context.Background(), "car", origin, true, servicedef.Params{}, nil)
		require.NoError(t, err)
		require.Len(t, result.Waypoints, 1)
		assert.Equal(t, servicedef.Coordinate{Longitude: 1.25, Latitude: 1}, result.Waypoints[0].Location)

		r := <-requests
		assert.Equal(t, "/nearest/v1/car/1.0,1.0.flatbuffers", r.Request.URL.Path)
	})
}

func TestNearestQueryFailure(t *testing.T) {
	body := []byte(`{"code":"InvalidQuery","message":"Query string malformed close to position 28"}`)
	httphelpers.WithServer(httphelpers.HandlerWithResponse(400, jsonHeaders(), body), func(server *httptest.Server) {
		_, err := clientFor(t, server).Nearest(context.Background(), "car", origin, false, servicedef.Params{}, nil)
		require.Error(t, err)
		f, ok := AsQueryFailure(err)
		require.True(t, ok)
		assert.Equal(t, 400, f.Status)
		assert.Equal(t, "InvalidQuery", f.Result.Code)
		assert.Equal(t, "Query string malformed close to position 28", f.Result.Message)
	})
}

func TestRouteQueryFailureWithUndecodableBody(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithResponse(500, jsonHeaders(), []byte("oops")), func(server *httptest.Server) {
		_, err := clientFor(t, server).RouteRaw(context.Background(), "route/v1/car/1,1", nil)
		var de *DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, []byte("oops"), de.Payload)
	})
}

func TestRouteUsesDefaultParams(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(
		httphelpers.HandlerWithResponse(200, jsonHeaders(), []byte(routeJSON)))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		waypoints := []fixture.Location{origin, {Latitude: 1, Longitude: 1.0027}}
		result, err := clientFor(t, server).Route(context.Background(), "car", waypoints, false,
			servicedef.DefaultRouteParams(), nil)
		require.NoError(t, err)
		assert.Len(t, result.Routes, 1)

		r := <-requests
		assert.Equal(t, "/route/v1/car/1.0,1.0;1.0027,1.0", r.Request.URL.Path)
		assert.Equal(t, "steps=true&alternatives=false", r.Request.URL.RawQuery)
	})
}

func TestRouteFlatbuffersIsUnsupported(t *testing.T) {
	headers := http.Header{"Content-Type": []string{"application/x-flatbuffers"}}
	httphelpers.WithServer(httphelpers.HandlerWithResponse(200, headers, fbresult.Encode(nearestFlatbuffers)), func(server *httptest.Server) {
		_, err := clientFor(t, server).Route(context.Background(), "car", []fixture.Location{origin, origin}, true,
			servicedef.Params{}, nil)
		assert.ErrorIs(t, err, ErrRouteFlatbuffersUnsupported)
	})
}

func TestTransportErrorIncludesURL(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	c := clientFor(t, server)
	server.Close()

	_, err := c.Nearest(context.Background(), "car", origin, false, servicedef.Params{}, nil)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, c.BaseURL()+"/nearest/v1/car/1.0,1.0", te.URL)
	_, isFailure := AsQueryFailure(err)
	assert.False(t, isFailure)
}

func TestReadTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	httphelpers.WithServer(slow, func(server *httptest.Server) {
		u, _ := url.Parse(server.URL)
		port, _ := strconv.Atoi(u.Port())
		c := New(u.Hostname(), port, Timeouts{Connect: time.Second, Read: 100 * time.Millisecond})
		_, err := c.Get(context.Background(), "/nearest/v1/car/1,1", nil)
		var te *TransportError
		assert.True(t, errors.As(err, &te))
	})
}
