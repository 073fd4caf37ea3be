// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/SeleniumHQ/selenium-sub066/protocol"
)

const (
	jsonMIMEType = "application/json"
	formMIMEType = "application/x-www-form-urlencoded; charset=utf-8"

	DefaultHTTPTimeout = 60 * time.Second

	maxLoggedBody = 1024
	maxRedirects  = 10
)

//Response is a raw reply of the remote end. Body holds the decoded JSON
//document; it is nil when the server answered an error status with a body
//that is not JSON, in which case Raw still carries the bytes.
type Response struct {
	StatusCode int
	Status     string
	Body       json.RawMessage
	Raw        []byte
}

//Transport sends one request to a WebDriver server. Implementations do not
//interpret the envelope.
type Transport interface {
	Send(ctx context.Context, method, path string, body interface{}) (*Response, error)
}

//HTTPTransport is the net/http Transport.
type HTTPTransport struct {
	baseURL *url.URL
	client  *http.Client
	log     logr.Logger
}

//NewHTTPTransport creates a transport for the server at baseURL. Every
//request is bounded by timeout (DefaultHTTPTimeout when 0).
func NewHTTPTransport(baseURL string, timeout time.Duration, log logr.Logger) (*HTTPTransport, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTPTransport{
		baseURL: u,
		client: &http.Client{
			Timeout: timeout,
			// A 302/303 after POST (the legacy new session reply) is followed
			// as a GET; every hop still has to ask for JSON.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				req.Header.Set("Accept", jsonMIMEType)
				log.V(1).Info("redirected", "method", req.Method, "location", req.URL.String())
				return nil
			},
		},
		log: log,
	}, nil
}

func (t *HTTPTransport) URL() string { return t.baseURL.String() }

func (t *HTTPTransport) resolve(path string) string {
	return t.baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")}).String()
}

//Send issues method on path, relative to the base url. body is serialized as
//JSON for POST requests and ignored otherwise.
func (t *HTTPTransport) Send(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	if method != http.MethodGet && method != http.MethodPost && method != http.MethodDelete {
		return nil, errors.New("invalid method: " + method)
	}
	var data []byte
	if method == http.MethodPost {
		if body == nil {
			body = map[string]interface{}{}
		}
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
	}
	return t.do(ctx, method, t.resolve(path), data, jsonMIMEType+";charset=utf-8")
}

//SendForm posts form-encoded values to path. It is used by the Selenium RC
//dialect, whose replies are plain text; only Raw is set on the response.
func (t *HTTPTransport) SendForm(ctx context.Context, path string, values url.Values) (*Response, error) {
	u := t.resolve(path)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", formMIMEType)
	t.log.V(1).Info(">>", "method", http.MethodPost, "url", u, "cmd", values.Get("cmd"))
	response, err := t.client.Do(request)
	if err != nil {
		return nil, &protocol.ConnectionError{Op: http.MethodPost, URL: u, Err: err}
	}
	defer response.Body.Close()
	buf, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &protocol.ConnectionError{Op: "read response", URL: u, Err: err}
	}
	t.log.V(1).Info("<<", "status", response.StatusCode, "body", head(buf))
	return &Response{StatusCode: response.StatusCode, Status: response.Status, Raw: buf}, nil
}

func newRequest(ctx context.Context, method, url string, data []byte, contentType string) (*http.Request, error) {
	request, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	if method == http.MethodPost {
		request.Header.Add("Content-Type", contentType)
	}
	request.Header.Set("Accept", jsonMIMEType)
	request.Header.Set("Accept-Charset", "utf-8")
	return request, nil
}

//communicate with the server.
func (t *HTTPTransport) do(ctx context.Context, method, url string, data []byte, contentType string) (*Response, error) {
	t.log.V(1).Info(">>", "method", method, "url", url, "bytes", len(data))
	request, err := newRequest(ctx, method, url, data, contentType)
	if err != nil {
		return nil, err
	}
	response, err := t.client.Do(request)
	if err != nil {
		return nil, &protocol.ConnectionError{Op: method, URL: url, Err: err}
	}
	defer response.Body.Close()

	buf, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &protocol.ConnectionError{Op: "read response", URL: url, Err: err}
	}
	t.log.V(1).Info("<<", "status", response.StatusCode, "body", head(buf))

	r := &Response{StatusCode: response.StatusCode, Status: response.Status, Raw: buf}
	trimmed := bytes.TrimSpace(buf)
	switch {
	case len(trimmed) == 0:
		if response.StatusCode < http.StatusBadRequest {
			r.Body = json.RawMessage("null")
		}
	case json.Valid(trimmed):
		r.Body = json.RawMessage(trimmed)
	case response.StatusCode < http.StatusBadRequest:
		return nil, &protocol.ProtocolError{Msg: fmt.Sprintf("%s %s: response must be a JSON object", method, url)}
	}
	return r, nil
}

func head(buf []byte) string {
	if len(buf) > maxLoggedBody {
		return fmt.Sprintf("%s ...%d more bytes", string(buf[0:maxLoggedBody]), len(buf)-maxLoggedBody)
	}
	return string(buf)
}
