// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SeleniumHQ/selenium-sub066/internal/testutil"
)

const (
	ossSessionID = "oss-1"
	w3cSessionID = "w3c-1"
)

type fakeRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

//fakeReply is the HTTP status and the JSON document a fake route answers
//with. A string document is written verbatim.
type fakeReply struct {
	status   int
	doc      interface{}
	location string
}

type fakeHandler func(req fakeRequest) fakeReply

//fakeDriver is an in-process WebDriver server speaking one dialect.
type fakeDriver struct {
	dialect Dialect
	server  *httptest.Server

	lock     sync.Mutex
	routes   map[string]fakeHandler
	requests []fakeRequest
}

func newFakeDriver(t *testing.T, dialect Dialect) *fakeDriver {
	f := &fakeDriver{dialect: dialect, routes: map[string]fakeHandler{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(f.server.Close)
	f.handle("POST /session", f.newSessionReply(Capabilities{"browserName": "fake"}))
	return f
}

func (f *fakeDriver) handle(route string, h fakeHandler) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.routes[route] = h
}

//reply answers route with a successful envelope carrying value.
func (f *fakeDriver) reply(route string, value interface{}) {
	f.handle(route, func(fakeRequest) fakeReply { return f.ok(value) })
}

func (f *fakeDriver) ok(value interface{}) fakeReply {
	if f.dialect == DialectOSS {
		return fakeReply{status: http.StatusOK, doc: map[string]interface{}{"sessionId": ossSessionID, "status": 0, "value": value}}
	}
	return fakeReply{status: http.StatusOK, doc: map[string]interface{}{"value": value}}
}

func (f *fakeDriver) newSessionReply(caps Capabilities) fakeHandler {
	return func(fakeRequest) fakeReply {
		if f.dialect == DialectOSS {
			return f.ok(caps)
		}
		return f.ok(map[string]interface{}{"sessionId": w3cSessionID, "capabilities": caps})
	}
}

func w3cFailure(status int, kind, message string) fakeReply {
	return fakeReply{status: status, doc: map[string]interface{}{
		"value": map[string]interface{}{"error": kind, "message": message, "stacktrace": "at fake()"},
	}}
}

func ossFailure(status int, message string) fakeReply {
	return fakeReply{status: http.StatusOK, doc: map[string]interface{}{
		"sessionId": ossSessionID, "status": status, "value": map[string]interface{}{"message": message},
	}}
}

func (f *fakeDriver) serveHTTP(w http.ResponseWriter, r *http.Request) {
	req := fakeRequest{Method: r.Method, Path: r.URL.Path}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &req.Body)
	}
	f.lock.Lock()
	f.requests = append(f.requests, req)
	h, found := f.routes[r.Method+" "+r.URL.Path]
	f.lock.Unlock()

	var rep fakeReply
	switch {
	case found:
		rep = h(req)
	case f.dialect == DialectOSS:
		rep = fakeReply{status: http.StatusNotFound, doc: "Unknown command: " + r.URL.Path}
	default:
		rep = w3cFailure(http.StatusNotFound, "unknown command", r.URL.Path)
	}

	if rep.location != "" {
		w.Header().Set("Location", rep.location)
	}
	if text, isText := rep.doc.(string); isText {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(rep.status)
		_, _ = io.WriteString(w, text)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(rep.status)
	_ = json.NewEncoder(w).Encode(rep.doc)
}

func (f *fakeDriver) requestCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.requests)
}

func (f *fakeDriver) lastRequest() fakeRequest {
	f.lock.Lock()
	defer f.lock.Unlock()
	if len(f.requests) == 0 {
		return fakeRequest{}
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeDriver) driver(t *testing.T) *RemoteDriver {
	d, err := NewRemoteDriver(f.server.URL)
	require.NoError(t, err)
	d.Log = testutil.NewLogForTesting(t.Name())
	return d
}

//session starts a session on f through the facade.
func (f *fakeDriver) session(t *testing.T) *Session {
	s, err := f.driver(t).NewSession(Capabilities{"browserName": "fake"}, nil)
	require.NoError(t, err)
	return s
}
