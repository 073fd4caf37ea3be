// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SeleniumHQ/selenium-sub066/internal/testutil"
	"github.com/SeleniumHQ/selenium-sub066/protocol"
)

type recordedRequest struct {
	method      string
	path        string
	accept      string
	contentType string
	body        string
}

func newRecordingServer(t *testing.T, status int, reply string) (*HTTPTransport, *[]recordedRequest) {
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			accept:      r.Header.Get("Accept"),
			contentType: r.Header.Get("Content-Type"),
			body:        string(data),
		})
		if r.URL.Path == "/wd/hub/moved" {
			http.Redirect(w, r, "/wd/hub/target", http.StatusSeeOther)
			return
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(server.Close)

	transport, err := NewHTTPTransport(server.URL+"/wd/hub", time.Second, testutil.NewLogForTesting(t.Name()))
	require.NoError(t, err)
	return transport, &requests
}

func TestNewHTTPTransportRejectsBadUrls(t *testing.T) {
	t.Parallel()
	for _, u := range []string{"ftp://localhost:4444", "localhost:4444", "://"} {
		_, err := NewHTTPTransport(u, 0, testutil.NewLogForTesting(t.Name()))
		require.Error(t, err, u)
	}
}

func TestSendPostsJSON(t *testing.T) {
	t.Parallel()
	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()
	transport, requests := newRecordingServer(t, http.StatusOK, `{"value": 1}`)

	resp, err := transport.Send(ctx, http.MethodPost, "session/1/refresh", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"value": 1}`, string(resp.Body))

	req := (*requests)[0]
	require.Equal(t, "/wd/hub/session/1/refresh", req.path)
	require.Equal(t, "{}", req.body)
	require.Equal(t, "application/json", req.accept)
	require.Contains(t, req.contentType, "application/json")

	_, err = transport.Send(ctx, http.MethodGet, "status", map[string]string{"ignored": "yes"})
	require.NoError(t, err)
	require.Empty(t, (*requests)[1].body)

	_, err = transport.Send(ctx, http.MethodPut, "status", nil)
	require.Error(t, err)
	require.Len(t, *requests, 2)
}

func TestSendFollowsRedirectWithAccept(t *testing.T) {
	t.Parallel()
	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()
	transport, requests := newRecordingServer(t, http.StatusOK, `{"value": null}`)

	_, err := transport.Send(ctx, http.MethodPost, "moved", Params{"desiredCapabilities": Capabilities{}})
	require.NoError(t, err)
	require.Len(t, *requests, 2)
	require.Equal(t, http.MethodGet, (*requests)[1].method)
	require.Equal(t, "/wd/hub/target", (*requests)[1].path)
	require.Equal(t, "application/json", (*requests)[1].accept)
	require.Empty(t, (*requests)[1].body)
}

func TestSendBodies(t *testing.T) {
	t.Parallel()
	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	// an empty success body is a null value
	transport, _ := newRecordingServer(t, http.StatusNoContent, "")
	resp, err := transport.Send(ctx, http.MethodGet, "status", nil)
	require.NoError(t, err)
	require.Equal(t, "null", string(resp.Body))

	transport, _ = newRecordingServer(t, http.StatusOK, "<html>not json</html>")
	_, err = transport.Send(ctx, http.MethodGet, "status", nil)
	var protoErr *protocol.ProtocolError
	require.ErrorAs(t, err, &protoErr)

	// error pages are handed to the caller as raw text
	transport, _ = newRecordingServer(t, http.StatusInternalServerError, "java.lang.NullPointerException")
	resp, err = transport.Send(ctx, http.MethodGet, "status", nil)
	require.NoError(t, err)
	require.Nil(t, resp.Body)
	require.Equal(t, "java.lang.NullPointerException", string(resp.Raw))
}

func TestSendConnectionRefused(t *testing.T) {
	t.Parallel()
	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	transport, err := NewHTTPTransport("http://"+addr, time.Second, testutil.NewLogForTesting(t.Name()))
	require.NoError(t, err)
	_, err = transport.Send(ctx, http.MethodGet, "status", nil)
	var connErr *protocol.ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, http.MethodGet, connErr.Op)
	require.True(t, protocol.IsSessionLost(err))
}

func TestSendForm(t *testing.T) {
	t.Parallel()
	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()
	transport, requests := newRecordingServer(t, http.StatusOK, "OK,123")

	resp, err := transport.SendForm(ctx, "selenium-server/driver/", url.Values{"cmd": {"getTitle"}, "sessionId": {"abc"}})
	require.NoError(t, err)
	require.Nil(t, resp.Body)
	require.Equal(t, "OK,123", string(resp.Raw))

	req := (*requests)[0]
	require.Equal(t, "/wd/hub/selenium-server/driver/", req.path)
	require.Contains(t, req.contentType, "application/x-www-form-urlencoded")
	values, err := url.ParseQuery(req.body)
	require.NoError(t, err)
	require.Equal(t, "getTitle", values.Get("cmd"))
	require.Equal(t, "abc", values.Get("sessionId"))
}
