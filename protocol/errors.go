// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package protocol holds the error taxonomy shared by every WebDriver
// dialect: the typed errors raised by the client itself and the driver
// errors translated from response envelopes.
package protocol

import (
	"errors"
	"fmt"
	"strings"
)

//ErrorKind identifies a class of driver error. The value is the W3C
//kebab-case identifier, so a kind can be compared directly with the "error"
//field of a W3C or BiDi envelope.
//
//ErrorKind implements error so that callers can write
//errors.Is(err, protocol.ErrNoSuchElement).
type ErrorKind string

func (k ErrorKind) Error() string { return string(k) }

const (
	ErrElementClickIntercepted ErrorKind = "element click intercepted"
	ErrElementNotInteractable  ErrorKind = "element not interactable"
	ErrElementNotSelectable    ErrorKind = "element not selectable"
	ErrElementNotVisible       ErrorKind = "element not visible"
	ErrIMEEngineActivation     ErrorKind = "ime engine activation failed"
	ErrIMENotAvailable         ErrorKind = "ime not available"
	ErrInsecureCertificate     ErrorKind = "insecure certificate"
	ErrInvalidArgument         ErrorKind = "invalid argument"
	ErrInvalidCookieDomain     ErrorKind = "invalid cookie domain"
	ErrInvalidCoordinates      ErrorKind = "invalid coordinates"
	ErrInvalidElementState     ErrorKind = "invalid element state"
	ErrInvalidSelector         ErrorKind = "invalid selector"
	ErrInvalidSessionID        ErrorKind = "invalid session id"
	ErrJavascript              ErrorKind = "javascript error"
	ErrMoveTargetOutOfBounds   ErrorKind = "move target out of bounds"
	ErrNoSuchAlert             ErrorKind = "no such alert"
	ErrNoSuchCookie            ErrorKind = "no such cookie"
	ErrNoSuchElement           ErrorKind = "no such element"
	ErrNoSuchFrame             ErrorKind = "no such frame"
	ErrNoSuchWindow            ErrorKind = "no such window"
	ErrScriptTimeout           ErrorKind = "script timeout"
	ErrSessionNotCreated       ErrorKind = "session not created"
	ErrStaleElementReference   ErrorKind = "stale element reference"
	ErrTimeout                 ErrorKind = "timeout"
	ErrUnableToSetCookie       ErrorKind = "unable to set cookie"
	ErrUnableToCaptureScreen   ErrorKind = "unable to capture screen"
	ErrUnexpectedAlertOpen     ErrorKind = "unexpected alert open"
	ErrUnknownCommand          ErrorKind = "unknown command"
	ErrUnknownError            ErrorKind = "unknown error"
	ErrUnknownMethod           ErrorKind = "unknown method"
	ErrUnsupportedOperation    ErrorKind = "unsupported operation"
	ErrXPathLookup             ErrorKind = "xpath lookup error"
)

//CommandError is a failure reported by the remote end, translated from an
//OSS status code or a W3C/BiDi error identifier.
type CommandError struct {
	Kind ErrorKind
	//OSS status code, -1 when the response came from a W3C or BiDi envelope.
	StatusCode int
	//HTTP status of the response, 0 for BiDi frames.
	HTTPStatus int
	Message    string
	//Remote stack trace, when the envelope carried one.
	Stacktrace string
	//Extra payload some drivers attach to errors (e.g. the alert text of an
	//unexpected alert).
	Data map[string]interface{}
}

func (e *CommandError) Error() string {
	m := string(e.Kind)
	if m == "" {
		m = string(ErrUnknownError)
	}
	if e.StatusCode > 0 {
		if str, found := statusCodeStrings[e.StatusCode]; found {
			m += " (" + str + ")"
		} else {
			m += fmt.Sprintf(" (unknown status code %d)", e.StatusCode)
		}
	}
	if e.Message != "" {
		m += ": " + e.Message
	}
	return m
}

func (e *CommandError) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

//ConnectionError reports that the remote end could not be reached, or the
//connection broke while a command was in flight.
type ConnectionError struct {
	Op  string
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("connection error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("connection error: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

//ProtocolError reports a response that does not follow the wire protocol:
//malformed envelopes, unexpected frame ids, bad legacy encodings.
type ProtocolError struct {
	Msg string
	Err error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return "protocol error: " + e.Msg + ": " + e.Err.Error()
	}
	return "protocol error: " + e.Msg
}

func (e *ProtocolError) Unwrap() error { return e.Err }

type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %q", e.Name)
}

func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}

type MissingParameterError struct {
	Template string
	Param    string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing parameter %q for path %q", e.Param, e.Template)
}

//NoSuchSessionError is raised locally when a command is issued on a session
//that was never started or has already been terminated. It matches
//ErrInvalidSessionID so callers need only one check for local and remote
//session loss.
type NoSuchSessionError struct {
	SessionID string
	Reason    string
}

func (e *NoSuchSessionError) Error() string {
	var sb strings.Builder
	sb.WriteString("no such session")
	if e.SessionID != "" {
		sb.WriteString(" " + e.SessionID)
	}
	if e.Reason != "" {
		sb.WriteString(": " + e.Reason)
	}
	return sb.String()
}

func (e *NoSuchSessionError) Is(target error) bool {
	return target == ErrInvalidSessionID
}

//IsSessionLost reports whether err means the session can no longer be used.
func IsSessionLost(err error) bool {
	var connErr *ConnectionError
	return errors.Is(err, ErrInvalidSessionID) || errors.As(err, &connErr)
}
