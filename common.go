// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/go-logr/logr"

	"github.com/SeleniumHQ/selenium-sub066/protocol"
)

//WebDriverCore talks to a WebDriver server at a known URL. Drivers embed it
//and only add process management on top.
type WebDriverCore struct {
	url string

	//Bound on every HTTP request sent to the server. Default: 60s
	HTTPTimeout time.Duration
	//Catalog used by the sessions created through this driver. Default: the
	//catalog of the dialect negotiated by the server.
	Catalog *CommandCatalog
	//Default: discard
	Log logr.Logger
}

func (w *WebDriverCore) SetUrl(u *url.URL) {
	w.url = u.String()
}

//Url returns the server URL, empty until the driver has started.
func (w *WebDriverCore) Url() string { return w.url }

func (w *WebDriverCore) Start() error { return nil }
func (w *WebDriverCore) Stop() error  { return nil }

func (w *WebDriverCore) logger() logr.Logger {
	if w.Log.GetSink() == nil {
		return logr.Discard()
	}
	return w.Log
}

func (w *WebDriverCore) transport() (*HTTPTransport, error) {
	if w.url == "" {
		return nil, errors.New("driver is not started: server url is not set")
	}
	timeout := w.HTTPTimeout
	if timeout == 0 {
		timeout = DefaultHTTPTimeout
	}
	return NewHTTPTransport(w.url, timeout, w.logger())
}

func (w *WebDriverCore) newBridge() (*Bridge, error) {
	t, err := w.transport()
	if err != nil {
		return nil, err
	}
	return NewBridge(t, w.Catalog, w.logger()), nil
}

//Query the server's status.
func (w *WebDriverCore) Status() (*Status, error) {
	b, err := w.newBridge()
	if err != nil {
		return nil, err
	}
	data, err := b.Execute(context.Background(), CmdStatus, nil, nil)
	if err != nil {
		return nil, err
	}
	status := &Status{}
	err = json.Unmarshal(data, status)
	return status, err
}

//Create a new session.
//The server should attempt to create a session that most closely matches the desired and required capabilities. Required capabilities have higher priority than desired capabilities and must be set for the session to be created.
//
//Both the JSON Wire and the W3C forms of the capabilities are sent; the
//form of the reply fixes the dialect of the session.
func (w *WebDriverCore) newSession(desired, required Capabilities) (*Session, error) {
	if desired == nil {
		desired = Capabilities{}
	}
	alwaysMatch := required
	if alwaysMatch == nil {
		alwaysMatch = Capabilities{}
	}
	p := Params{
		"desiredCapabilities":  desired,
		"requiredCapabilities": required,
		"capabilities": Params{
			"alwaysMatch": alwaysMatch,
			"firstMatch":  []Capabilities{desired},
		},
	}
	b, err := w.newBridge()
	if err != nil {
		return nil, err
	}
	if _, err := b.Execute(context.Background(), CmdNewSession, nil, p); err != nil {
		return nil, err
	}
	return newSession(b, w.logger()), nil
}

//type matching one entry of the get_sessions reply.
type sessionEntry struct {
	Id           string       `json:"id"`
	Capabilities Capabilities `json:"capabilities"`
}

//Returns a list of the currently active sessions.
//Only JSON Wire servers implement this command.
func (w *WebDriverCore) sessions() ([]*Session, error) {
	b, err := w.newBridge()
	if err != nil {
		return nil, err
	}
	data, err := b.Execute(context.Background(), CmdGetSessions, nil, nil)
	if err != nil {
		return nil, err
	}
	var entries []sessionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &protocol.ProtocolError{Msg: "invalid sessions list", Err: err}
	}
	log := w.logger()
	sessions := make([]*Session, 0, len(entries))
	for _, e := range entries {
		attached := AttachBridge(b.transport, w.Catalog, log, e.Id, e.Capabilities, DialectOSS)
		sessions = append(sessions, newSession(attached, log))
	}
	return sessions, nil
}

//RemoteDriver is a WebDriver server started by someone else (a Selenium
//grid, a driver started by hand).
type RemoteDriver struct {
	WebDriverCore
}

func NewRemoteDriver(serverUrl string) (*RemoteDriver, error) {
	u, err := url.Parse(serverUrl)
	if err != nil {
		return nil, err
	}
	d := &RemoteDriver{}
	d.SetUrl(u)
	d.HTTPTimeout = DefaultHTTPTimeout
	return d, nil
}

func (d *RemoteDriver) NewSession(desired, required Capabilities) (*Session, error) {
	return d.newSession(desired, required)
}

func (d *RemoteDriver) Sessions() ([]*Session, error) {
	return d.sessions()
}
