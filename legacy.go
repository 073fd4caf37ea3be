// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/SeleniumHQ/selenium-sub066/protocol"
)

const (
	seleneseDriverPath = "selenium-server/driver/"
	seleneseOK         = "OK"
)

//SeleneseClient speaks the legacy Selenium RC protocol: form encoded
//commands, "OK[,payload]" text replies.
type SeleneseClient struct {
	transport *HTTPTransport
	log       logr.Logger

	//Browser launcher, e.g. "*firefox"
	BrowserStartCommand string
	//Start page of the browser
	BrowserURL string

	sessionID string
	state     SessionState
}

func NewSeleneseClient(serverUrl string, browserStartCommand, browserURL string, log logr.Logger) (*SeleneseClient, error) {
	t, err := NewHTTPTransport(serverUrl, DefaultHTTPTimeout, log)
	if err != nil {
		return nil, err
	}
	return &SeleneseClient{
		transport:           t,
		log:                 log,
		BrowserStartCommand: browserStartCommand,
		BrowserURL:          browserURL,
		state:               SessionUnstarted,
	}, nil
}

func (c *SeleneseClient) SessionID() string   { return c.sessionID }
func (c *SeleneseClient) State() SessionState { return c.state }

//Start launches the browser and opens a session.
func (c *SeleneseClient) Start(ctx context.Context) error {
	if c.state != SessionUnstarted {
		return fmt.Errorf("selenese session is %s", c.state)
	}
	id, err := c.send(ctx, "getNewBrowserSession", []string{c.BrowserStartCommand, c.BrowserURL})
	if err != nil {
		return err
	}
	if id == "" {
		return &protocol.ProtocolError{Msg: "getNewBrowserSession returned no session id"}
	}
	c.sessionID = id
	c.state = SessionActive
	c.log.V(1).Info("selenese session started", "session", id)
	return nil
}

//Stop closes the browser. The client can not be used afterwards.
func (c *SeleneseClient) Stop(ctx context.Context) error {
	if _, err := c.DoCommand(ctx, "testComplete"); err != nil {
		return err
	}
	c.state = SessionTerminated
	return nil
}

//DoCommand runs a command and returns the payload following "OK,".
func (c *SeleneseClient) DoCommand(ctx context.Context, verb string, args ...string) (string, error) {
	switch c.state {
	case SessionUnstarted:
		return "", &protocol.NoSuchSessionError{Reason: verb + " requires a session, none has been started"}
	case SessionTerminated:
		return "", &protocol.NoSuchSessionError{SessionID: c.sessionID, Reason: "session has been terminated"}
	}
	payload, err := c.send(ctx, verb, args)
	if err != nil {
		var connErr *protocol.ConnectionError
		if errors.As(err, &connErr) {
			c.state = SessionTerminated
		}
		return "", err
	}
	return payload, nil
}

func (c *SeleneseClient) send(ctx context.Context, verb string, args []string) (string, error) {
	values := url.Values{}
	values.Set("cmd", verb)
	for i, arg := range args {
		values.Set(strconv.Itoa(i+1), arg)
	}
	if c.sessionID != "" {
		values.Set("sessionId", c.sessionID)
	}
	resp, err := c.transport.SendForm(ctx, seleneseDriverPath, values)
	if err != nil {
		return "", err
	}
	return parseSeleneseReply(string(resp.Raw))
}

func parseSeleneseReply(text string) (string, error) {
	if text == seleneseOK {
		return "", nil
	}
	if strings.HasPrefix(text, seleneseOK+",") {
		return text[len(seleneseOK)+1:], nil
	}
	return "", &protocol.CommandError{Kind: protocol.ErrUnknownError, StatusCode: -1, Message: text}
}

func (c *SeleneseClient) GetString(ctx context.Context, verb string, args ...string) (string, error) {
	return c.DoCommand(ctx, verb, args...)
}

func (c *SeleneseClient) GetStringArray(ctx context.Context, verb string, args ...string) ([]string, error) {
	payload, err := c.DoCommand(ctx, verb, args...)
	if err != nil {
		return nil, err
	}
	return DecodeCSV(payload), nil
}

func (c *SeleneseClient) GetNumber(ctx context.Context, verb string, args ...string) (float64, error) {
	payload, err := c.DoCommand(ctx, verb, args...)
	if err != nil {
		return 0, err
	}
	return parseSeleneseNumber(payload)
}

func (c *SeleneseClient) GetNumberArray(ctx context.Context, verb string, args ...string) ([]float64, error) {
	payload, err := c.DoCommand(ctx, verb, args...)
	if err != nil {
		return nil, err
	}
	fields := DecodeCSV(payload)
	numbers := make([]float64, len(fields))
	for i, f := range fields {
		if numbers[i], err = parseSeleneseNumber(f); err != nil {
			return nil, err
		}
	}
	return numbers, nil
}

func (c *SeleneseClient) GetBoolean(ctx context.Context, verb string, args ...string) (bool, error) {
	payload, err := c.DoCommand(ctx, verb, args...)
	if err != nil {
		return false, err
	}
	return parseSeleneseBool(payload)
}

//GetBooleanArray decodes every element on its own; one bad element fails the
//whole array.
func (c *SeleneseClient) GetBooleanArray(ctx context.Context, verb string, args ...string) ([]bool, error) {
	payload, err := c.DoCommand(ctx, verb, args...)
	if err != nil {
		return nil, err
	}
	fields := DecodeCSV(payload)
	bools := make([]bool, len(fields))
	for i, f := range fields {
		if bools[i], err = parseSeleneseBool(f); err != nil {
			return nil, err
		}
	}
	return bools, nil
}

func parseSeleneseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &protocol.ProtocolError{Msg: fmt.Sprintf("result was not a number: %q", s), Err: err}
	}
	return n, nil
}

func parseSeleneseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &protocol.ProtocolError{Msg: fmt.Sprintf("result was neither 'true' nor 'false': %q", s)}
}

type csvState int

const (
	csvNormal csvState = iota
	csvEscaped
)

//DecodeCSV splits a comma separated Selenese array. "\," is a literal comma
//and "\\" a literal backslash; a backslash escapes whatever single character
//follows it. A trailing lone backslash is dropped.
//
//The input is scanned as bytes: the separators are ASCII and never occur
//inside a multi-byte sequence, and invalid UTF-8 passes through unchanged.
func DecodeCSV(s string) []string {
	var fields []string
	var sb strings.Builder
	state := csvNormal
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case csvEscaped:
			sb.WriteByte(c)
			state = csvNormal
		case csvNormal:
			switch c {
			case '\\':
				state = csvEscaped
			case ',':
				fields = append(fields, sb.String())
				sb.Reset()
			default:
				sb.WriteByte(c)
			}
		}
	}
	return append(fields, sb.String())
}
