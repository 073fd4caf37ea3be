// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/SeleniumHQ/selenium-sub066/bidi"
	"github.com/SeleniumHQ/selenium-sub066/protocol"
)

type WebDriver interface {
	//Start webdriver service
	Start() error
	//Stop webdriver service
	Stop() error
	//Query the server's status.
	Status() (*Status, error)
	//Create a new session.
	NewSession(desired, required Capabilities) (*Session, error)
	//Returns a list of the currently active sessions.
	Sessions() ([]*Session, error)
}

//Server details. JSON Wire servers fill Build and OS, W3C servers fill
//Ready and Message.
type Status struct {
	Ready   bool
	Message string
	Build   Build
	OS      OS
}

//Server built details.
type Build struct {
	Version  string
	Revision string
	Time     string
}

//Server OS details
type OS struct {
	Arch    string
	Name    string
	Version string
}

//Capabilities is a map that stores capabilities of a session.
type Capabilities map[string]interface{}

//A session. Commands go through the session's Bridge; once the session is
//terminated (quit, lost connection, remote end forgot it) every call fails
//with an error matching protocol.ErrInvalidSessionID.
type Session struct {
	Id           string
	Capabilities Capabilities

	bridge   *Bridge
	log      logr.Logger
	timeouts Timeouts
}

func newSession(b *Bridge, log logr.Logger) *Session {
	return &Session{
		Id:           b.SessionID(),
		Capabilities: b.Capabilities(),
		bridge:       b,
		log:          log,
	}
}

//Timeouts in milliseconds.
type Timeouts struct {
	Implicit int `json:"implicit"`
	PageLoad int `json:"pageLoad"`
	Script   int `json:"script"`
}

type WindowHandle struct {
	s  *Session
	id string
}

func (w WindowHandle) Id() string { return w.id }

type Size struct {
	Width  int
	Height int
}

type Position struct {
	X int
	Y int
}

type FindElementStrategy string

const (
	//Returns an element whose class name contains the search value; compound class names are not permitted.
	ClassName = FindElementStrategy("class name")
	//Returns an element matching a CSS selector.
	CSS_Selector = FindElementStrategy("css selector")
	//Returns an element whose ID attribute matches the search value.
	ID = FindElementStrategy("id")
	//Returns an element whose NAME attribute matches the search value.
	Name = FindElementStrategy("name")
	//Returns an anchor element whose visible text matches the search value.
	LinkText = FindElementStrategy("link text")
	//Returns an anchor element whose visible text partially matches the search value.
	PartialLinkText = FindElementStrategy("partial link text")
	//Returns an element whose tag name matches the search value.
	TagName = FindElementStrategy("tag name")
	//Returns an element matching an XPath expression.
	XPath = FindElementStrategy("xpath")
)

const (
	//key of an element reference in JSON Wire replies
	ossElementKey = "ELEMENT"
	//key of an element reference in W3C replies
	w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"
)

type WebElement struct {
	s  *Session
	id string
}

func (e WebElement) Id() string { return e.id }

//MarshalJSON encodes the element as a reference both dialects understand,
//so elements can be passed as script arguments or frame ids.
func (e WebElement) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{ossElementKey: e.id, w3cElementKey: e.id})
}

func decodeElementId(data []byte) (string, error) {
	var ref map[string]string
	if err := json.Unmarshal(data, &ref); err != nil {
		return "", &protocol.ProtocolError{Msg: "invalid element reference", Err: err}
	}
	if id, found := ref[w3cElementKey]; found {
		return id, nil
	}
	if id, found := ref[ossElementKey]; found {
		return id, nil
	}
	return "", &protocol.ProtocolError{Msg: "element reference has no id: " + string(data)}
}

type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Path     string `json:"path,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
	HttpOnly bool   `json:"httpOnly,omitempty"`
	Expiry   int    `json:"expiry,omitempty"`
}

type LogLevel string

const (
	LogAll     = LogLevel("ALL")
	LogDebug   = LogLevel("DEBUG")
	LogInfo    = LogLevel("INFO")
	LogWarning = LogLevel("WARNING")
	LogSevere  = LogLevel("SEVERE")
	LogOff     = LogLevel("OFF")
)

type LogEntry struct {
	TimeStamp int64
	Level     string
	Message   string
}

////////////////////////////////////////////////////////////////////////////////
// COMMAND LIST
// Command descriptions are from:
// https://code.google.com/p/selenium/wiki/JsonWireProtocol
// https://www.w3.org/TR/webdriver/
////////////////////////////////////////////////////////////////////////////////

func (s *Session) execute(cmd Command, pathParams map[string]string, p Params) (json.RawMessage, error) {
	return s.bridge.Execute(context.Background(), cmd, pathParams, p)
}

//run executes cmd and decodes the reply into out, if not nil.
func (s *Session) run(cmd Command, pathParams map[string]string, p Params, out interface{}) error {
	data, err := s.execute(cmd, pathParams, p)
	if err != nil || out == nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &protocol.ProtocolError{Msg: fmt.Sprintf("invalid %s reply", cmd), Err: err}
	}
	return nil
}

func (s *Session) w3c() bool {
	d := s.bridge.Dialect()
	return d == DialectW3C || d == DialectBiDi
}

func (s *Session) State() SessionState { return s.bridge.State() }
func (s *Session) Dialect() Dialect    { return s.bridge.Dialect() }

//Retrieve the capabilities of the specified session.
func (s *Session) GetCapabilities() Capabilities {
	// the capabilities returned by new_session are kept in Session already
	return s.Capabilities
}

//Quit the session. The session can not be used afterwards.
func (s *Session) Quit() error {
	return s.run(CmdQuit, nil, nil, nil)
}

//Delete the session. Same as Quit.
func (s *Session) Delete() error {
	return s.Quit()
}

var w3cTimeoutNames = map[string]string{
	"script":    "script",
	"implicit":  "implicit",
	"page load": "pageLoad",
	"pageLoad":  "pageLoad",
}

//Configure the amount of time that a particular type of operation can execute for before they are aborted and a |Timeout| error is returned to the client.  Valid values are: "script" for script timeouts, "implicit" for modifying the implicit wait timeout and "page load" for setting a page load timeout.
func (s *Session) SetTimeouts(typ string, ms int) error {
	name, found := w3cTimeoutNames[typ]
	if !found {
		return fmt.Errorf("%w: unknown timeout type %q", protocol.ErrInvalidArgument, typ)
	}
	var p Params
	if s.w3c() {
		p = Params{name: ms}
	} else {
		p = Params{"type": typ, "ms": ms}
	}
	if err := s.run(CmdSetTimeout, nil, p, nil); err != nil {
		return err
	}
	s.cacheTimeout(name, ms)
	return nil
}

func (s *Session) cacheTimeout(name string, ms int) {
	switch name {
	case "script":
		s.timeouts.Script = ms
	case "implicit":
		s.timeouts.Implicit = ms
	case "pageLoad":
		s.timeouts.PageLoad = ms
	}
}

//Get the timeouts of the session. JSON Wire servers can not report them,
//the values set through this session are returned instead.
func (s *Session) GetTimeouts() (Timeouts, error) {
	if !s.w3c() {
		if s.State() != SessionActive {
			return Timeouts{}, &protocol.NoSuchSessionError{SessionID: s.Id, Reason: "session is not active"}
		}
		return s.timeouts, nil
	}
	var t Timeouts
	if err := s.run(CmdGetTimeouts, nil, nil, &t); err != nil {
		return Timeouts{}, err
	}
	s.timeouts = t
	return t, nil
}

//Set the amount of time, in milliseconds, that asynchronous scripts executed by ExecuteScriptAsync() are permitted to run before they are aborted and a |Timeout| error is returned to the client.
func (s *Session) SetTimeoutsAsyncScript(ms int) error {
	if s.w3c() {
		return s.SetTimeouts("script", ms)
	}
	if err := s.run(CmdSetScriptTimeout, nil, Params{"ms": ms}, nil); err != nil {
		return err
	}
	s.cacheTimeout("script", ms)
	return nil
}

//Set the amount of time the driver should wait when searching for elements. When searching for a single element, the driver should poll the page until an element is found or the timeout expires, whichever occurs first. When searching for multiple elements, the driver should poll the page until at least one element is found or the timeout expires, at which point it should return an empty list.
//If this command is never sent, the driver should default to an implicit wait of 0ms.
func (s *Session) SetTimeoutsImplicitWait(ms int) error {
	if s.w3c() {
		return s.SetTimeouts("implicit", ms)
	}
	if err := s.run(CmdImplicitlyWait, nil, Params{"ms": ms}, nil); err != nil {
		return err
	}
	s.cacheTimeout("implicit", ms)
	return nil
}

//The current window, whatever its server assigned handle.
//Only meaningful on JSON Wire servers; W3C window commands always act on the
//current window.
func (s *Session) GetCurrentWindowHandle() WindowHandle {
	return WindowHandle{s, "current"}
}

//Retrieve the current window handle.
func (s *Session) WindowHandle() (WindowHandle, error) {
	var handle string
	if err := s.run(CmdGetCurrentWindowHandle, nil, nil, &handle); err != nil {
		return WindowHandle{}, err
	}
	return WindowHandle{s, handle}, nil
}

//Retrieve the list of all window handles available to the session.
func (s *Session) WindowHandles() ([]WindowHandle, error) {
	var hv []string
	if err := s.run(CmdGetWindowHandles, nil, nil, &hv); err != nil {
		return nil, err
	}
	var handles = make([]WindowHandle, len(hv))
	for i, h := range hv {
		handles[i] = WindowHandle{s, h}
	}
	return handles, nil
}

//Retrieve the URL of the current page.
func (s *Session) GetUrl() (string, error) {
	var url string
	err := s.run(CmdGetCurrentURL, nil, nil, &url)
	return url, err
}

//Navigate to a new URL.
func (s *Session) Url(url string) error {
	return s.run(CmdGet, nil, Params{"url": url}, nil)
}

//Navigate forwards in the browser history, if possible.
func (s *Session) Forward() error {
	return s.run(CmdGoForward, nil, nil, nil)
}

//Navigate backwards in the browser history, if possible.
func (s *Session) Back() error {
	return s.run(CmdGoBack, nil, nil, nil)
}

//Refresh the current page.
func (s *Session) Refresh() error {
	return s.run(CmdRefresh, nil, nil, nil)
}

func scriptArgs(args []interface{}) []interface{} {
	if args == nil {
		return []interface{}{}
	}
	return args
}

// Inject a snippet of JavaScript into the page for execution in the context of the currently selected frame. The executed script is assumed to be synchronous and the result of evaluating the script is returned to the client.
// The script argument defines the script to execute in the form of a function body. The value returned by that function will be returned to the client. The function will be invoked with the provided args array and the values may be accessed via the arguments object in the order specified.
// Arguments may be any JSON-primitive, array, or JSON object. WebElement arguments are sent as element references.
func (s *Session) ExecuteScript(script string, args []interface{}) ([]byte, error) {
	return s.execute(CmdExecuteScript, nil, Params{"script": script, "args": scriptArgs(args)})
}

// Inject a snippet of JavaScript into the page for execution in the context of the currently selected frame. The executed script is assumed to be asynchronous and must signal that is done by invoking the provided callback, which is always provided as the final argument to the function. The value to this callback will be returned to the client.
// Asynchronous script commands may not span page loads. If an unload event is fired while waiting for a script result, an error should be returned to the client.
func (s *Session) ExecuteScriptAsync(script string, args []interface{}) ([]byte, error) {
	return s.execute(CmdExecuteAsyncScript, nil, Params{"script": script, "args": scriptArgs(args)})
}

func decodeScreenshot(data json.RawMessage) ([]byte, error) {
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, &protocol.ProtocolError{Msg: "screenshot is not a string", Err: err}
	}
	png, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &protocol.ProtocolError{Msg: "screenshot is not base64 encoded", Err: err}
	}
	return png, nil
}

//Take a screenshot of the current page. Returns PNG data.
func (s *Session) Screenshot() ([]byte, error) {
	data, err := s.execute(CmdScreenshot, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeScreenshot(data)
}

//Change focus to another frame on the page.
func (s *Session) FocusOnFrame(frameId interface{}) error {
	if frameId != nil {
		switch frameId.(type) {
		case string:
		case int:
		case WebElement:
		default:
			return errors.New("invalid frame, must be string|int|nil|WebElement")
		}
	}
	return s.run(CmdSwitchToFrame, nil, Params{"id": frameId}, nil)
}

// Change focus back to parent frame
func (s *Session) FocusParentFrame() error {
	return s.run(CmdSwitchToParentFrame, nil, nil, nil)
}

//Change focus to another window. The window to change focus to may be specified by its server assigned window handle, or by the value of its name attribute (JSON Wire servers only).
func (s *Session) FocusOnWindow(name string) error {
	p := Params{"name": name}
	if s.w3c() {
		p = Params{"handle": name}
	}
	return s.run(CmdSwitchToWindow, nil, p, nil)
}

//Close the current window. On W3C servers closing the last window ends the
//session.
func (s *Session) CloseCurrentWindow() error {
	return s.run(CmdCloseWindow, nil, nil, nil)
}

//Open a new window or tab (typ "window" or "tab") and return its handle.
//The new window does not get the focus.
func (s *Session) NewWindow(typ string) (WindowHandle, error) {
	var reply struct {
		Handle string `json:"handle"`
	}
	if err := s.run(CmdNewWindow, nil, Params{"type": typ}, &reply); err != nil {
		return WindowHandle{}, err
	}
	return WindowHandle{s, reply.Handle}, nil
}

//rect of a W3C window, in CSS pixels.
type windowRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (w WindowHandle) params() map[string]string {
	return map[string]string{"window_handle": w.id}
}

//Change the size of the specified window.
func (w WindowHandle) SetSize(size Size) error {
	p := Params{"width": size.Width, "height": size.Height}
	if w.s.w3c() {
		return w.s.run(CmdSetWindowRect, nil, p, nil)
	}
	return w.s.run(CmdSetWindowSize, w.params(), p, nil)
}

//Get the size of the specified window.
func (w WindowHandle) GetSize() (Size, error) {
	if w.s.w3c() {
		var rect windowRect
		if err := w.s.run(CmdGetWindowRect, nil, nil, &rect); err != nil {
			return Size{}, err
		}
		return Size{Width: rect.Width, Height: rect.Height}, nil
	}
	var outSize Size
	err := w.s.run(CmdGetWindowSize, w.params(), nil, &outSize)
	return outSize, err
}

//Change the position of the specified window.
func (w WindowHandle) SetPosition(position Position) error {
	p := Params{"x": position.X, "y": position.Y}
	if w.s.w3c() {
		return w.s.run(CmdSetWindowRect, nil, p, nil)
	}
	return w.s.run(CmdSetWindowPosition, w.params(), p, nil)
}

//Get the position of the specified window.
func (w WindowHandle) GetPosition() (Position, error) {
	if w.s.w3c() {
		var rect windowRect
		if err := w.s.run(CmdGetWindowRect, nil, nil, &rect); err != nil {
			return Position{}, err
		}
		return Position{X: rect.X, Y: rect.Y}, nil
	}
	var position Position
	err := w.s.run(CmdGetWindowPosition, w.params(), nil, &position)
	return position, err
}

//Maximize the specified window if not already maximized.
func (w WindowHandle) MaximizeWindow() error {
	if w.s.w3c() {
		return w.s.run(CmdMaximizeWindow, nil, nil, nil)
	}
	return w.s.run(CmdMaximizeWindow, w.params(), nil, nil)
}

//Minimize the current window (W3C only).
func (s *Session) MinimizeWindow() error {
	return s.run(CmdMinimizeWindow, nil, nil, nil)
}

//Make the current window full screen (W3C only).
func (s *Session) FullscreenWindow() error {
	return s.run(CmdFullscreenWindow, nil, nil, nil)
}

//Retrieve all cookies visible to the current page.
func (s *Session) GetCookies() ([]Cookie, error) {
	var cookies []Cookie
	err := s.run(CmdGetCookies, nil, nil, &cookies)
	return cookies, err
}

//Retrieve the cookie with the given name.
func (s *Session) GetCookie(name string) (Cookie, error) {
	if s.w3c() {
		var cookie Cookie
		err := s.run(CmdGetCookie, map[string]string{"name": name}, nil, &cookie)
		return cookie, err
	}
	cookies, err := s.GetCookies()
	if err != nil {
		return Cookie{}, err
	}
	for _, c := range cookies {
		if c.Name == name {
			return c, nil
		}
	}
	return Cookie{}, &protocol.CommandError{Kind: protocol.ErrNoSuchCookie, StatusCode: -1, Message: name}
}

//Set a cookie.
func (s *Session) SetCookie(cookie Cookie) error {
	return s.run(CmdAddCookie, nil, Params{"cookie": cookie}, nil)
}

//Delete all cookies visible to the current page.
func (s *Session) DeleteCookies() error {
	return s.run(CmdDeleteAllCookies, nil, nil, nil)
}

//Delete the cookie with the given name.
func (s *Session) DeleteCookieByName(name string) error {
	return s.run(CmdDeleteCookie, map[string]string{"name": name}, nil, nil)
}

//Get the current page source.
func (s *Session) Source() (string, error) {
	var source string
	err := s.run(CmdGetPageSource, nil, nil, &source)
	return source, err
}

//Get the current page title.
func (s *Session) Title() (string, error) {
	var title string
	err := s.run(CmdGetTitle, nil, nil, &title)
	return title, err
}

func (s *Session) WebElementFromId(id string) WebElement {
	return WebElement{s, id}
}

func (s *Session) findElement(cmd Command, pathParams map[string]string, using FindElementStrategy, value string) (WebElement, error) {
	data, err := s.execute(cmd, pathParams, Params{"using": using, "value": value})
	if err != nil {
		return WebElement{}, err
	}
	id, err := decodeElementId(data)
	if err != nil {
		return WebElement{}, err
	}
	return WebElement{s, id}, nil
}

func (s *Session) findElements(cmd Command, pathParams map[string]string, using FindElementStrategy, value string) ([]WebElement, error) {
	data, err := s.execute(cmd, pathParams, Params{"using": using, "value": value})
	if err != nil {
		return nil, err
	}
	var refs []json.RawMessage
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, &protocol.ProtocolError{Msg: "invalid element list", Err: err}
	}
	elements := make([]WebElement, len(refs))
	for i, ref := range refs {
		id, err := decodeElementId(ref)
		if err != nil {
			return nil, err
		}
		elements[i] = WebElement{s, id}
	}
	return elements, nil
}

//Search for an element on the page, starting from the document root.
func (s *Session) FindElement(using FindElementStrategy, value string) (WebElement, error) {
	return s.findElement(CmdFindElement, nil, using, value)
}

//Search for multiple elements on the page, starting from the document root.
func (s *Session) FindElements(using FindElementStrategy, value string) ([]WebElement, error) {
	return s.findElements(CmdFindElements, nil, using, value)
}

//Get the element on the page that currently has focus.
func (s *Session) GetActiveElement() (WebElement, error) {
	data, err := s.execute(CmdGetActiveElement, nil, nil)
	if err != nil {
		return WebElement{}, err
	}
	id, err := decodeElementId(data)
	return WebElement{s, id}, err
}

func (e WebElement) params() map[string]string {
	return map[string]string{"id": e.id}
}

func (e WebElement) paramsWithName(name string) map[string]string {
	return map[string]string{"id": e.id, "name": name}
}

//Search for an element on the page, starting from the identified element.
func (e WebElement) FindElement(using FindElementStrategy, value string) (WebElement, error) {
	return e.s.findElement(CmdFindChildElement, e.params(), using, value)
}

//Search for multiple elements on the page, starting from the identified element.
func (e WebElement) FindElements(using FindElementStrategy, value string) ([]WebElement, error) {
	return e.s.findElements(CmdFindChildElements, e.params(), using, value)
}

//Click on an element.
func (e WebElement) Click() error {
	return e.s.run(CmdClickElement, e.params(), nil, nil)
}

//Submit a FORM element (JSON Wire only).
func (e WebElement) Submit() error {
	return e.s.run(CmdSubmitElement, e.params(), nil, nil)
}

//Returns the visible text for the element.
func (e WebElement) Text() (string, error) {
	var text string
	err := e.s.run(CmdGetElementText, e.params(), nil, &text)
	return text, err
}

//Send a sequence of key strokes to an element.
func (e WebElement) SendKeys(sequence string) error {
	keys := make([]string, 0, len(sequence))
	for _, k := range sequence {
		keys = append(keys, string(k))
	}
	p := Params{"value": keys}
	if e.s.w3c() {
		p["text"] = sequence
	}
	return e.s.run(CmdSendKeysToElement, e.params(), p, nil)
}

//Query for an element's tag name.
func (e WebElement) Name() (string, error) {
	var name string
	err := e.s.run(CmdGetElementTagName, e.params(), nil, &name)
	return name, err
}

//Clear a TEXTAREA or text INPUT element's value.
func (e WebElement) Clear() error {
	return e.s.run(CmdClearElement, e.params(), nil, nil)
}

//Determine if an OPTION element, or an INPUT element of type checkbox or radiobutton is currently selected.
func (e WebElement) IsSelected() (bool, error) {
	var isSelected bool
	err := e.s.run(CmdIsElementSelected, e.params(), nil, &isSelected)
	return isSelected, err
}

//Determine if an element is currently enabled.
func (e WebElement) IsEnabled() (bool, error) {
	var isEnabled bool
	err := e.s.run(CmdIsElementEnabled, e.params(), nil, &isEnabled)
	return isEnabled, err
}

//Determine if an element is currently displayed (JSON Wire only).
func (e WebElement) IsDisplayed() (bool, error) {
	var isDisplayed bool
	err := e.s.run(CmdIsElementDisplayed, e.params(), nil, &isDisplayed)
	return isDisplayed, err
}

//Get the value of an element's attribute. A missing attribute is returned
//as an empty string.
func (e WebElement) GetAttribute(name string) (string, error) {
	var attribute *string
	if err := e.s.run(CmdGetElementAttribute, e.paramsWithName(name), nil, &attribute); err != nil {
		return "", err
	}
	if attribute == nil {
		return "", nil
	}
	return *attribute, nil
}

//Get the raw value of an element's DOM property (W3C only).
func (e WebElement) GetProperty(name string) (json.RawMessage, error) {
	return e.s.execute(CmdGetElementProperty, e.paramsWithName(name), nil)
}

//Take a screenshot of the element's bounding box (W3C only).
func (e WebElement) Screenshot() ([]byte, error) {
	data, err := e.s.execute(CmdElementScreenshot, e.params(), nil)
	if err != nil {
		return nil, err
	}
	return decodeScreenshot(data)
}

//Gets the text of the currently displayed JavaScript alert(), confirm(), or prompt() dialog.
func (s *Session) GetAlertText() (string, error) {
	var alertText string
	err := s.run(CmdGetAlertText, nil, nil, &alertText)
	return alertText, err
}

//Sends keystrokes to a JavaScript prompt() dialog.
func (s *Session) SetAlertText(text string) error {
	return s.run(CmdSetAlertValue, nil, Params{"text": text}, nil)
}

//Accepts the currently displayed alert dialog.
func (s *Session) AcceptAlert() error {
	return s.run(CmdAcceptAlert, nil, nil, nil)
}

//Dismisses the currently displayed alert dialog.
func (s *Session) DismissAlert() error {
	return s.run(CmdDismissAlert, nil, nil, nil)
}

//Get the log for a given log type.
func (s *Session) Log(logType string) ([]LogEntry, error) {
	var log []LogEntry
	err := s.run(CmdGetLog, nil, Params{"type": logType}, &log)
	return log, err
}

//Get available log types.
func (s *Session) LogTypes() ([]string, error) {
	var logTypes []string
	err := s.run(CmdGetAvailableLogTypes, nil, nil, &logTypes)
	return logTypes, err
}

//Connect to the BiDi endpoint of the session. The session must have been
//created with the "webSocketUrl" capability set to true. The caller closes
//the returned session.
func (s *Session) BiDi(ctx context.Context) (*bidi.Session, error) {
	if s.State() != SessionActive {
		return nil, &protocol.NoSuchSessionError{SessionID: s.Id, Reason: "session is not active"}
	}
	wsUrl, _ := s.Capabilities["webSocketUrl"].(string)
	if s.Dialect() != DialectBiDi || wsUrl == "" {
		return nil, &protocol.NoSuchSessionError{SessionID: s.Id, Reason: "session does not support BiDi"}
	}
	return bidi.Dial(ctx, wsUrl, s.log.WithValues("session", s.Id))
}
