// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bidi

import "encoding/json"

const (
	typeSuccess = "success"
	typeError   = "error"
	typeEvent   = "event"
)

//command is an outgoing frame.
type command struct {
	ID     int64       `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params"`
}

//frame is any incoming frame: a command reply when ID is set, an event
//otherwise.
type frame struct {
	ID         *int64                 `json:"id"`
	Type       string                 `json:"type"`
	Method     string                 `json:"method"`
	Params     json.RawMessage        `json:"params"`
	Result     json.RawMessage        `json:"result"`
	Error      string                 `json:"error"`
	Message    string                 `json:"message"`
	Stacktrace string                 `json:"stacktrace"`
	Data       map[string]interface{} `json:"data"`
}

//reply is what a pending command receives.
type reply struct {
	result json.RawMessage
	err    error
}

//Protocol level commands for event subscription.
const (
	methodSubscribe   = "session.subscribe"
	methodUnsubscribe = "session.unsubscribe"
)

type subscriptionParams struct {
	Events   []string `json:"events"`
	Contexts []string `json:"contexts,omitempty"`
}
