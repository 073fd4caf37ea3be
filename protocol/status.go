// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

import (
	"encoding/json"
	"net/http"
)

//OSS (JSON Wire Protocol) status codes.
const (
	Success                    = 0
	NoSuchDriver               = 6
	NoSuchElement              = 7
	NoSuchFrame                = 8
	UnknownCommand             = 9
	StaleElementReference      = 10
	ElementNotVisible          = 11
	InvalidElementState        = 12
	UnknownError               = 13
	ElementIsNotSelectable     = 15
	JavaScriptError            = 17
	XPathLookupError           = 19
	Timeout                    = 21
	NoSuchWindow               = 23
	InvalidCookieDomain        = 24
	UnableToSetCookie          = 25
	UnexpectedAlertOpen        = 26
	NoAlertOpenError           = 27
	ScriptTimeout              = 28
	InvalidElementCoordinates  = 29
	IMENotAvailable            = 30
	IMEEngineActivationFailed  = 31
	InvalidSelector            = 32
	SessionNotCreatedException = 33
	MoveTargetOutOfBounds      = 34
	InvalidXPathSelector       = 51
	InvalidXPathSelectorReturn = 52
	MethodNotAllowed           = 405
)

var statusCodeStrings = map[int]string{
	6:   "A session is either terminated or not started.",
	7:   "An element could not be located on the page using the given search parameters.",
	8:   "A request to switch to a frame could not be satisfied because the frame could not be found.",
	9:   "The requested resource could not be found, or a request was received using an HTTP method that is not supported by the mapped resource.",
	10:  "An element command failed because the referenced element is no longer attached to the DOM.",
	11:  "An element command could not be completed because the element is not visible on the page.",
	12:  "An element command could not be completed because the element is in an invalid state (e.g. attempting to click a disabled element).",
	13:  "An unknown server-side error occurred while processing the command.",
	15:  "An attempt was made to select an element that cannot be selected.",
	17:  "An error occurred while executing user supplied JavaScript.",
	19:  "An error occurred while searching for an element by XPath.",
	21:  "An operation did not complete before its timeout expired.",
	23:  "A request to switch to a different window could not be satisfied because the window could not be found.",
	24:  "An illegal attempt was made to set a cookie under a different domain than the current page.",
	25:  "A request to set a cookie's value could not be satisfied.",
	26:  "A modal dialog was open, blocking this operation.",
	27:  "An attempt was made to operate on a modal dialog when one was not open.",
	28:  "A script did not complete before its timeout expired.",
	29:  "The coordinates provided to an interactions operation are invalid.",
	30:  "IME was not available.",
	31:  "An IME engine could not be started.",
	32:  "Argument was an invalid selector (e.g. XPath/CSS).",
	33:  "A new session could not be created.",
	34:  "Target provided for a move action is out of bounds.",
	51:  "The XPath selector is invalid.",
	52:  "The XPath selector did not return an element.",
	405: "The HTTP method is not allowed for this resource.",
}

var statusCodeKinds = map[int]ErrorKind{
	NoSuchDriver:               ErrInvalidSessionID,
	NoSuchElement:              ErrNoSuchElement,
	NoSuchFrame:                ErrNoSuchFrame,
	UnknownCommand:             ErrUnknownCommand,
	StaleElementReference:      ErrStaleElementReference,
	ElementNotVisible:          ErrElementNotVisible,
	InvalidElementState:        ErrInvalidElementState,
	UnknownError:               ErrUnknownError,
	ElementIsNotSelectable:     ErrElementNotSelectable,
	JavaScriptError:            ErrJavascript,
	XPathLookupError:           ErrXPathLookup,
	Timeout:                    ErrTimeout,
	NoSuchWindow:               ErrNoSuchWindow,
	InvalidCookieDomain:        ErrInvalidCookieDomain,
	UnableToSetCookie:          ErrUnableToSetCookie,
	UnexpectedAlertOpen:        ErrUnexpectedAlertOpen,
	NoAlertOpenError:           ErrNoSuchAlert,
	ScriptTimeout:              ErrScriptTimeout,
	InvalidElementCoordinates:  ErrInvalidCoordinates,
	IMENotAvailable:            ErrIMENotAvailable,
	IMEEngineActivationFailed:  ErrIMEEngineActivation,
	InvalidSelector:            ErrInvalidSelector,
	SessionNotCreatedException: ErrSessionNotCreated,
	MoveTargetOutOfBounds:      ErrMoveTargetOutOfBounds,
	InvalidXPathSelector:       ErrInvalidSelector,
	InvalidXPathSelectorReturn: ErrInvalidSelector,
	MethodNotAllowed:           ErrUnknownMethod,
}

var w3cKinds = map[string]ErrorKind{}

func init() {
	for _, k := range []ErrorKind{
		ErrElementClickIntercepted, ErrElementNotInteractable, ErrElementNotSelectable,
		ErrElementNotVisible, ErrIMEEngineActivation, ErrIMENotAvailable,
		ErrInsecureCertificate, ErrInvalidArgument, ErrInvalidCookieDomain,
		ErrInvalidCoordinates, ErrInvalidElementState, ErrInvalidSelector,
		ErrInvalidSessionID, ErrJavascript, ErrMoveTargetOutOfBounds,
		ErrNoSuchAlert, ErrNoSuchCookie, ErrNoSuchElement, ErrNoSuchFrame,
		ErrNoSuchWindow, ErrScriptTimeout, ErrSessionNotCreated,
		ErrStaleElementReference, ErrTimeout, ErrUnableToSetCookie,
		ErrUnableToCaptureScreen, ErrUnexpectedAlertOpen, ErrUnknownCommand,
		ErrUnknownError, ErrUnknownMethod, ErrUnsupportedOperation, ErrXPathLookup,
	} {
		w3cKinds[string(k)] = k
	}
	//older drivers used this spelling before "invalid session id" settled
	w3cKinds["no such session"] = ErrInvalidSessionID
}

//KindForStatus maps an OSS status code to its error kind. Unrecognized codes
//map to ErrUnknownError.
func KindForStatus(code int) ErrorKind {
	if k, found := statusCodeKinds[code]; found {
		return k
	}
	return ErrUnknownError
}

//KindForIdentifier maps a W3C error identifier to its error kind.
//Unrecognized identifiers map to ErrUnknownError.
func KindForIdentifier(id string) ErrorKind {
	if k, found := w3cKinds[id]; found {
		return k
	}
	return ErrUnknownError
}

//KindForHTTPStatus is the last resort when an error response carries no
//parsable envelope.
func KindForHTTPStatus(code int) ErrorKind {
	switch code {
	case http.StatusBadRequest:
		return ErrInvalidArgument
	case http.StatusNotFound:
		return ErrUnknownCommand
	case http.StatusMethodNotAllowed:
		return ErrUnknownMethod
	default:
		return ErrUnknownError
	}
}

//type matching the value of an OSS error response.
type ossErrorValue struct {
	Message    string `json:"message"`
	Class      string `json:"class"`
	Screen     string `json:"screen"`
	StackTrace []struct {
		FileName   string `json:"fileName"`
		ClassName  string `json:"className"`
		MethodName string `json:"methodName"`
		LineNumber int    `json:"lineNumber"`
	} `json:"stackTrace"`
}

//FromStatus builds the error for an OSS response whose status is not
//Success. rawValue is the envelope's "value"; when it is not an object (some
//drivers put a bare string there) it becomes the message verbatim.
func FromStatus(httpStatus, status int, rawValue json.RawMessage) *CommandError {
	e := &CommandError{
		Kind:       KindForStatus(status),
		StatusCode: status,
		HTTPStatus: httpStatus,
	}
	var v ossErrorValue
	if err := json.Unmarshal(rawValue, &v); err != nil {
		var s string
		if json.Unmarshal(rawValue, &s) == nil {
			e.Message = s
		} else {
			e.Message = string(rawValue)
		}
		return e
	}
	e.Message = v.Message
	if len(v.StackTrace) > 0 {
		var st []byte
		for _, f := range v.StackTrace {
			st = append(st, []byte(f.ClassName+"."+f.MethodName+" ("+f.FileName+")\n")...)
		}
		e.Stacktrace = string(st)
	}
	return e
}

//FromW3C builds the error for a W3C or BiDi failure envelope.
func FromW3C(httpStatus int, id, message, stacktrace string, data map[string]interface{}) *CommandError {
	return &CommandError{
		Kind:       KindForIdentifier(id),
		StatusCode: -1,
		HTTPStatus: httpStatus,
		Message:    message,
		Stacktrace: stacktrace,
		Data:       data,
	}
}
