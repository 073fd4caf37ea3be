// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bidi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
	"github.com/gorilla/websocket"

	"github.com/SeleniumHQ/selenium-sub066/protocol"
)

//Channel is a bidirectional message stream. ReadMessage is only ever called
//from the session's reader goroutine; WriteMessage calls are serialized by
//the session.
type Channel interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

const (
	closeMessageTimeout = 100 * time.Millisecond
	maxDialInterval     = 2 * time.Second
)

type wsChannel struct {
	conn *websocket.Conn
}

//NewWebSocketChannel wraps an established WebSocket connection.
func NewWebSocketChannel(conn *websocket.Conn) Channel {
	return &wsChannel{conn: conn}
}

func (c *wsChannel) ReadMessage() ([]byte, error) {
	for {
		msgType, msg, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		// Ping and Pong are handled by gorilla; frames are always text
		if msgType == websocket.TextMessage || msgType == websocket.BinaryMessage {
			return msg, nil
		}
	}
}

func (c *wsChannel) WriteMessage(data []byte) error {
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsChannel) Close() error {
	// best effort, the peer may already be gone
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeMessageTimeout),
	)
	return c.conn.Close()
}

//Dial connects to the BiDi endpoint at url (the "webSocketUrl" capability
//of a session), retrying with exponential backoff until ctx is done, and
//starts a Session on the connection.
func Dial(ctx context.Context, url string, log logr.Logger) (*Session, error) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = maxDialInterval
	policy.MaxElapsedTime = 0 // stop only when ctx is done

	var lastErr error
	conn, err := backoff.RetryNotifyWithData(func() (*websocket.Conn, error) {
		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err == nil {
			return conn, nil
		}
		if resp != nil && resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
			// the endpoint exists and refuses us, retrying will not help
			return nil, backoff.Permanent(fmt.Errorf("websocket handshake refused: %s", resp.Status))
		}
		return nil, err
	}, backoff.WithContext(policy, ctx), func(err error, d time.Duration) {
		lastErr = err
		log.V(1).Info("BiDi endpoint not reachable yet, retrying", "url", url, "error", err.Error(), "delay", d)
	})
	if err != nil {
		if lastErr != nil && ctx.Err() != nil {
			err = fmt.Errorf("%w (last attempt: %v)", err, lastErr)
		}
		return nil, &protocol.ConnectionError{Op: "dial", URL: url, Err: err}
	}
	return NewSession(NewWebSocketChannel(conn), log.WithValues("url", url)), nil
}
