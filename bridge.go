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
	"net/http"

	"github.com/go-logr/logr"

	"github.com/SeleniumHQ/selenium-sub066/protocol"
)

//Dialect is the wire protocol variant spoken by a session. It is fixed when
//the session is created.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectOSS
	DialectW3C
	DialectBiDi
)

func (d Dialect) String() string {
	switch d {
	case DialectOSS:
		return "oss"
	case DialectW3C:
		return "w3c"
	case DialectBiDi:
		return "bidi"
	default:
		return "unknown"
	}
}

//SessionState is the lifecycle state of the session a Bridge carries.
type SessionState int

const (
	SessionUnstarted SessionState = iota
	SessionActive
	SessionTerminated
)

func (s SessionState) String() string {
	switch s {
	case SessionUnstarted:
		return "Unstarted"
	case SessionActive:
		return "Active"
	case SessionTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

//typing saver
type Params map[string]interface{}

//Bridge translates symbolic commands into requests on a Transport and
//replies into values or typed errors. A Bridge carries at most one session;
//it is meant to be used by one logical flow at a time and does no locking.
type Bridge struct {
	transport Transport
	catalog   *CommandCatalog
	log       logr.Logger

	state        SessionState
	sessionID    string
	capabilities Capabilities
	dialect      Dialect
}

//NewBridge creates a bridge in the Unstarted state. A nil catalog selects the
//dialect default once the session exists.
func NewBridge(transport Transport, catalog *CommandCatalog, log logr.Logger) *Bridge {
	return &Bridge{
		transport: transport,
		catalog:   catalog,
		log:       log,
		state:     SessionUnstarted,
	}
}

//AttachBridge creates a bridge for a session that already exists on the
//server.
func AttachBridge(transport Transport, catalog *CommandCatalog, log logr.Logger, id string, caps Capabilities, dialect Dialect) *Bridge {
	b := NewBridge(transport, catalog, log)
	b.activate(id, caps, dialect)
	return b
}

func (b *Bridge) State() SessionState        { return b.state }
func (b *Bridge) SessionID() string          { return b.sessionID }
func (b *Bridge) Capabilities() Capabilities { return b.capabilities }
func (b *Bridge) Dialect() Dialect           { return b.dialect }

func (b *Bridge) activeCatalog() *CommandCatalog {
	if b.catalog != nil {
		return b.catalog
	}
	return CatalogFor(b.dialect)
}

func (b *Bridge) activate(id string, caps Capabilities, dialect Dialect) {
	b.sessionID = id
	b.capabilities = caps
	b.dialect = dialect
	b.state = SessionActive
	b.log = b.log.WithValues("session", id)
	b.log.V(1).Info("session started", "dialect", dialect.String())
}

func (b *Bridge) terminate(reason string) {
	if b.state == SessionTerminated {
		return
	}
	b.state = SessionTerminated
	b.log.V(1).Info("session terminated", "reason", reason)
}

//Execute runs cmd and returns the unwrapped "value" of the reply.
//pathParams fill the placeholders of the command's path; session_id is
//added automatically. body is sent as JSON for POST commands.
func (b *Bridge) Execute(ctx context.Context, cmd Command, pathParams map[string]string, body Params) (json.RawMessage, error) {
	info, err := b.activeCatalog().Resolve(cmd)
	if err != nil {
		return nil, err
	}

	switch {
	case b.state == SessionTerminated:
		return nil, &protocol.NoSuchSessionError{SessionID: b.sessionID, Reason: "session has been terminated"}
	case cmd == CmdNewSession && b.state == SessionActive:
		return nil, &protocol.CommandError{
			Kind:       protocol.ErrSessionNotCreated,
			StatusCode: -1,
			Message:    fmt.Sprintf("session %s is already active", b.sessionID),
		}
	}

	params := pathParams
	if isSessionScoped(info.Path) {
		if b.state != SessionActive {
			return nil, &protocol.NoSuchSessionError{Reason: fmt.Sprintf("%s requires a session, none has been started", cmd)}
		}
		params = make(map[string]string, len(pathParams)+1)
		for k, v := range pathParams {
			params[k] = v
		}
		params[sessionIDParam] = b.sessionID
	}
	path, err := SubstitutePath(info.Path, params)
	if err != nil {
		return nil, err
	}

	var payload interface{}
	if info.Method == http.MethodPost {
		payload = body
	}
	resp, err := b.transport.Send(ctx, info.Method, path, payload)
	if err != nil {
		var connErr *protocol.ConnectionError
		if errors.As(err, &connErr) && b.state == SessionActive {
			b.terminate("transport failure")
		}
		return nil, err
	}

	if cmd == CmdNewSession {
		return b.startSession(resp)
	}

	value, err := unwrap(b.dialect, resp)
	if err != nil {
		if protocol.IsSessionLost(err) {
			b.terminate("remote end lost the session")
		}
		return nil, err
	}

	switch cmd {
	case CmdQuit:
		b.terminate("quit")
	case CmdCloseWindow:
		var remaining []string
		if b.dialect != DialectOSS && json.Unmarshal(value, &remaining) == nil && remaining != nil && len(remaining) == 0 {
			b.terminate("last window closed")
		}
	}
	return value, nil
}

//type matching any response envelope.
type envelope struct {
	SessionID json.RawMessage `json:"sessionId"`
	Status    *int            `json:"status"`
	Value     json.RawMessage `json:"value"`
}

type w3cError struct {
	Error      string                 `json:"error"`
	Message    string                 `json:"message"`
	Stacktrace string                 `json:"stacktrace"`
	Data       map[string]interface{} `json:"data"`
}

func parseEnvelope(resp *Response) (*envelope, error) {
	if resp.Body == nil {
		return nil, nil
	}
	env := &envelope{}
	if err := json.Unmarshal(resp.Body, env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, nil
		}
		return nil, &protocol.ProtocolError{Msg: "response must be a JSON object", Err: err}
	}
	return env, nil
}

//unwrap extracts "value" from an envelope or translates it into an error.
//Before a session exists the dialect is unknown and both shapes are
//accepted.
func unwrap(dialect Dialect, resp *Response) (json.RawMessage, error) {
	env, err := parseEnvelope(resp)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, &protocol.CommandError{
			Kind:       protocol.KindForHTTPStatus(resp.StatusCode),
			StatusCode: -1,
			HTTPStatus: resp.StatusCode,
			Message:    string(bytes.TrimSpace(resp.Raw)),
		}
	}

	// chromedriver could return a 200 code on errors, so the status field
	// wins over the HTTP code for OSS replies
	if dialect != DialectW3C && dialect != DialectBiDi && env.Status != nil {
		if *env.Status != protocol.Success {
			return nil, protocol.FromStatus(resp.StatusCode, *env.Status, env.Value)
		}
		if resp.StatusCode < http.StatusBadRequest {
			return env.Value, nil
		}
	}

	var we w3cError
	if len(env.Value) > 0 && env.Value[0] == '{' && json.Unmarshal(env.Value, &we) == nil && we.Error != "" {
		return nil, protocol.FromW3C(resp.StatusCode, we.Error, we.Message, we.Stacktrace, we.Data)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		msg := we.Message
		if msg == "" {
			msg = string(bytes.TrimSpace(resp.Raw))
		}
		return nil, &protocol.CommandError{
			Kind:       protocol.KindForHTTPStatus(resp.StatusCode),
			StatusCode: -1,
			HTTPStatus: resp.StatusCode,
			Message:    msg,
		}
	}
	return env.Value, nil
}

//type matching the value of a W3C new session reply.
type w3cNewSession struct {
	SessionID    string       `json:"sessionId"`
	Capabilities Capabilities `json:"capabilities"`
}

func (b *Bridge) startSession(resp *Response) (json.RawMessage, error) {
	env, err := parseEnvelope(resp)
	if err != nil {
		return nil, err
	}

	// OSS: {"sessionId": "...", "status": 0, "value": {capabilities}}
	if env != nil && env.Status != nil {
		value, err := unwrap(DialectOSS, resp)
		if err != nil {
			return nil, err
		}
		var id string
		if err := json.Unmarshal(env.SessionID, &id); err != nil || id == "" {
			return nil, &protocol.ProtocolError{Msg: "new session reply carries no session id", Err: err}
		}
		var caps Capabilities
		if err := json.Unmarshal(value, &caps); err != nil {
			return nil, &protocol.ProtocolError{Msg: "invalid capabilities in new session reply", Err: err}
		}
		b.activate(id, caps, DialectOSS)
		return value, nil
	}

	// W3C: {"value": {"sessionId": "...", "capabilities": {...}}}
	value, err := unwrap(DialectW3C, resp)
	if err != nil {
		return nil, err
	}
	var ns w3cNewSession
	if err := json.Unmarshal(value, &ns); err != nil || ns.SessionID == "" {
		return nil, &protocol.ProtocolError{Msg: "new session reply carries no session id", Err: err}
	}
	dialect := DialectW3C
	if ws, ok := ns.Capabilities["webSocketUrl"].(string); ok && ws != "" {
		dialect = DialectBiDi
	}
	b.activate(ns.SessionID, ns.Capabilities, dialect)
	return value, nil
}
