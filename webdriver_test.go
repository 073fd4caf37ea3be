// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeleniumHQ/selenium-sub066/internal/testutil"
	"github.com/SeleniumHQ/selenium-sub066/protocol"
)

const defaultTestTimeout = 10 * time.Second

func TestStatus(t *testing.T) {
	t.Parallel()
	oss := newFakeDriver(t, DialectOSS)
	oss.reply("GET /status", map[string]interface{}{
		"build": map[string]interface{}{"version": "2.53.1"},
		"os":    map[string]interface{}{"name": "Linux", "arch": "amd64"},
	})
	status, err := oss.driver(t).Status()
	require.NoError(t, err)
	require.Equal(t, "2.53.1", status.Build.Version)
	require.Equal(t, "Linux", status.OS.Name)

	w3c := newFakeDriver(t, DialectW3C)
	w3c.reply("GET /status", map[string]interface{}{"ready": true, "message": "ready to go"})
	status, err = w3c.driver(t).Status()
	require.NoError(t, err)
	require.True(t, status.Ready)
	require.Equal(t, "ready to go", status.Message)
}

func TestNewSessionSendsBothCapabilityForms(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectW3C)
	_, err := f.driver(t).NewSession(Capabilities{"browserName": "fake"}, Capabilities{"acceptInsecureCerts": true})
	require.NoError(t, err)

	body := f.lastRequest().Body
	require.Equal(t, map[string]interface{}{"browserName": "fake"}, body["desiredCapabilities"])
	require.Equal(t, map[string]interface{}{"acceptInsecureCerts": true}, body["requiredCapabilities"])
	w3cCaps, ok := body["capabilities"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, map[string]interface{}{"acceptInsecureCerts": true}, w3cCaps["alwaysMatch"])
	require.Equal(t, []interface{}{map[string]interface{}{"browserName": "fake"}}, w3cCaps["firstMatch"])
}

func TestDialectIsFixedAtNewSession(t *testing.T) {
	t.Parallel()

	oss := newFakeDriver(t, DialectOSS).session(t)
	require.Equal(t, DialectOSS, oss.Dialect())
	require.Equal(t, ossSessionID, oss.Id)
	require.Equal(t, "fake", oss.Capabilities["browserName"])

	w3c := newFakeDriver(t, DialectW3C).session(t)
	require.Equal(t, DialectW3C, w3c.Dialect())
	require.Equal(t, w3cSessionID, w3c.Id)
	require.Equal(t, SessionActive, w3c.State())

	f := newFakeDriver(t, DialectW3C)
	f.handle("POST /session", f.newSessionReply(Capabilities{"webSocketUrl": "ws://127.0.0.1:1/session/w3c-1"}))
	require.Equal(t, DialectBiDi, f.session(t).Dialect())

	// webSocketUrl must be a string to count
	f = newFakeDriver(t, DialectW3C)
	f.handle("POST /session", f.newSessionReply(Capabilities{"webSocketUrl": true}))
	require.Equal(t, DialectW3C, f.session(t).Dialect())
}

func TestOSSValueIsUnwrapped(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectOSS)
	f.reply("GET /session/oss-1/title", "hello")
	s := f.session(t)

	title, err := s.Title()
	require.NoError(t, err)
	require.Equal(t, "hello", title)
}

func TestOSSStatusBecomesTypedError(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectOSS)
	// chromedriver answers errors with HTTP 200
	f.handle("POST /session/oss-1/element", func(fakeRequest) fakeReply {
		return ossFailure(protocol.NoSuchElement, "Unable to locate element: #missing")
	})
	s := f.session(t)

	_, err := s.FindElement(CSS_Selector, "#missing")
	require.ErrorIs(t, err, protocol.ErrNoSuchElement)
	require.Contains(t, err.Error(), "Unable to locate element: #missing")
	var cmdErr *protocol.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, protocol.NoSuchElement, cmdErr.StatusCode)
	require.Equal(t, SessionActive, s.State())
}

func TestW3CErrorMapping(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectW3C)
	f.handle("POST /session/w3c-1/element", func(fakeRequest) fakeReply {
		return w3cFailure(http.StatusNotFound, "no such element", "no element matches #missing")
	})
	f.handle("POST /session/w3c-1/url", func(fakeRequest) fakeReply {
		return w3cFailure(http.StatusInternalServerError, "something nobody has heard of", "boom")
	})
	s := f.session(t)

	_, err := s.FindElement(CSS_Selector, "#missing")
	require.ErrorIs(t, err, protocol.ErrNoSuchElement)
	var cmdErr *protocol.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "no element matches #missing", cmdErr.Message)
	assert.Equal(t, "at fake()", cmdErr.Stacktrace)
	assert.Equal(t, http.StatusNotFound, cmdErr.HTTPStatus)

	err = s.Url("http://example.com")
	require.ErrorIs(t, err, protocol.ErrUnknownError)
	require.Contains(t, err.Error(), "boom")
}

func TestErrorStatusWithoutEnvelope(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectOSS)
	f.handle("GET /session/oss-1/title", func(fakeRequest) fakeReply {
		return fakeReply{status: http.StatusMethodNotAllowed, doc: "Method not allowed"}
	})
	s := f.session(t)

	_, err := s.Title()
	require.ErrorIs(t, err, protocol.ErrUnknownMethod)
	require.Contains(t, err.Error(), "Method not allowed")

	// unknown routes of the fake answer 404 text
	_, err = s.Source()
	require.ErrorIs(t, err, protocol.ErrUnknownCommand)
}

func TestCommandsBeforeNewSession(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectOSS)
	log := testutil.NewLogForTesting(t.Name())
	transport, err := NewHTTPTransport(f.server.URL, time.Second, log)
	require.NoError(t, err)
	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	b := NewBridge(transport, nil, log)
	require.Equal(t, SessionUnstarted, b.State())
	_, err = b.Execute(ctx, CmdGetTitle, nil, nil)
	var noSession *protocol.NoSuchSessionError
	require.ErrorAs(t, err, &noSession)
	require.True(t, protocol.IsSessionLost(err))
	require.Equal(t, 0, f.requestCount(), "nothing may reach the server")

	// commands outside a session are fine
	f.reply("GET /status", map[string]interface{}{})
	_, err = b.Execute(ctx, CmdStatus, nil, nil)
	require.NoError(t, err)
	require.Equal(t, SessionUnstarted, b.State())
}

func TestNewSessionOnActiveBridge(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectW3C)
	s := f.session(t)
	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()
	sent := f.requestCount()

	_, err := s.bridge.Execute(ctx, CmdNewSession, nil, Params{"capabilities": Capabilities{}})
	var cmdErr *protocol.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.ErrorIs(t, err, protocol.ErrSessionNotCreated)
	require.Contains(t, err.Error(), "w3c-1")
	require.False(t, protocol.IsSessionLost(err))
	require.Equal(t, sent, f.requestCount(), "nothing may reach the server")
	require.Equal(t, SessionActive, s.bridge.State())
}

func TestQuitTerminatesSession(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectOSS)
	f.reply("DELETE /session/oss-1", nil)
	f.reply("GET /session/oss-1/title", "hello")
	s := f.session(t)

	require.NoError(t, s.Quit())
	require.Equal(t, SessionTerminated, s.State())
	sent := f.requestCount()

	_, err := s.Title()
	require.ErrorIs(t, err, protocol.ErrInvalidSessionID)
	require.Contains(t, err.Error(), ossSessionID)
	require.Equal(t, sent, f.requestCount())

	// quitting twice is not a remote call either
	require.Error(t, s.Quit())
	require.Equal(t, sent, f.requestCount())
}

func TestFailedQuitKeepsSession(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectW3C)
	f.handle("DELETE /session/w3c-1", func(fakeRequest) fakeReply {
		return w3cFailure(http.StatusInternalServerError, "unknown error", "browser is busy")
	})
	s := f.session(t)

	require.Error(t, s.Quit())
	require.Equal(t, SessionActive, s.State())
}

func TestConnectionErrorTerminatesSession(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectW3C)
	s := f.session(t)
	f.server.Close()

	_, err := s.Title()
	var connErr *protocol.ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, SessionTerminated, s.State())

	_, err = s.Title()
	var noSession *protocol.NoSuchSessionError
	require.ErrorAs(t, err, &noSession)
}

func TestRemoteInvalidSessionTerminates(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectW3C)
	f.handle("GET /session/w3c-1/title", func(fakeRequest) fakeReply {
		return w3cFailure(http.StatusNotFound, "invalid session id", "session deleted because of page crash")
	})
	s := f.session(t)

	_, err := s.Title()
	require.ErrorIs(t, err, protocol.ErrInvalidSessionID)
	require.Equal(t, SessionTerminated, s.State())
}

func TestCloseLastWindow(t *testing.T) {
	t.Parallel()

	w3c := newFakeDriver(t, DialectW3C)
	w3c.reply("DELETE /session/w3c-1/window", []string{"other"})
	s := w3c.session(t)
	require.NoError(t, s.CloseCurrentWindow())
	require.Equal(t, SessionActive, s.State())

	w3c.reply("DELETE /session/w3c-1/window", []string{})
	require.NoError(t, s.CloseCurrentWindow())
	require.Equal(t, SessionTerminated, s.State())

	// JSON Wire servers do not say what is left
	oss := newFakeDriver(t, DialectOSS)
	oss.reply("DELETE /session/oss-1/window", nil)
	s = oss.session(t)
	require.NoError(t, s.CloseCurrentWindow())
	require.Equal(t, SessionActive, s.State())
}

func TestNewSessionRedirect(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectOSS)
	f.handle("POST /session", func(fakeRequest) fakeReply {
		return fakeReply{status: http.StatusSeeOther, doc: "", location: "/session/oss-1"}
	})
	f.reply("GET /session/oss-1", Capabilities{"browserName": "redirected"})

	s := f.session(t)
	require.Equal(t, ossSessionID, s.Id)
	require.Equal(t, "redirected", s.Capabilities["browserName"])
	require.Equal(t, http.MethodGet, f.lastRequest().Method)
}

func TestCatalogMissIsNotSent(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectOSS)
	s := f.session(t)
	sent := f.requestCount()

	err := s.MinimizeWindow()
	var unknown *protocol.UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "minimize_window", unknown.Name)
	require.Equal(t, sent, f.requestCount())
	require.Equal(t, SessionActive, s.State())
}

func TestSessions(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectOSS)
	f.reply("GET /sessions", []map[string]interface{}{
		{"id": "s-2", "capabilities": map[string]interface{}{"browserName": "firefox"}},
	})
	f.reply("GET /session/s-2/title", "attached")

	sessions, err := f.driver(t).Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "s-2", sessions[0].Id)
	require.Equal(t, SessionActive, sessions[0].State())
	require.Equal(t, "firefox", sessions[0].Capabilities["browserName"])

	title, err := sessions[0].Title()
	require.NoError(t, err)
	require.Equal(t, "attached", title)
}

func TestTimeouts(t *testing.T) {
	t.Parallel()

	w3c := newFakeDriver(t, DialectW3C)
	w3c.reply("POST /session/w3c-1/timeouts", nil)
	w3c.reply("GET /session/w3c-1/timeouts", map[string]int{"implicit": 1, "pageLoad": 2, "script": 3})
	s := w3c.session(t)

	require.NoError(t, s.SetTimeouts("page load", 10000))
	require.Equal(t, map[string]interface{}{"pageLoad": float64(10000)}, w3c.lastRequest().Body)
	require.NoError(t, s.SetTimeoutsImplicitWait(500))
	require.Equal(t, map[string]interface{}{"implicit": float64(500)}, w3c.lastRequest().Body)
	timeouts, err := s.GetTimeouts()
	require.NoError(t, err)
	require.Equal(t, Timeouts{Implicit: 1, PageLoad: 2, Script: 3}, timeouts)

	require.Error(t, s.SetTimeouts("forever", 1))

	oss := newFakeDriver(t, DialectOSS)
	oss.reply("POST /session/oss-1/timeouts", nil)
	oss.reply("POST /session/oss-1/timeouts/implicit_wait", nil)
	oss.reply("POST /session/oss-1/timeouts/async_script", nil)
	s = oss.session(t)

	require.NoError(t, s.SetTimeouts("page load", 10000))
	require.Equal(t, map[string]interface{}{"type": "page load", "ms": float64(10000)}, oss.lastRequest().Body)
	require.NoError(t, s.SetTimeoutsImplicitWait(250))
	require.Equal(t, "/session/oss-1/timeouts/implicit_wait", oss.lastRequest().Path)
	require.NoError(t, s.SetTimeoutsAsyncScript(750))
	sent := oss.requestCount()
	timeouts, err = s.GetTimeouts()
	require.NoError(t, err)
	require.Equal(t, Timeouts{Implicit: 250, PageLoad: 10000, Script: 750}, timeouts)
	require.Equal(t, sent, oss.requestCount())
}

func TestWindows(t *testing.T) {
	t.Parallel()

	w3c := newFakeDriver(t, DialectW3C)
	w3c.reply("GET /session/w3c-1/window", "h1")
	w3c.reply("GET /session/w3c-1/window/handles", []string{"h1", "h2"})
	w3c.reply("POST /session/w3c-1/window", nil)
	w3c.reply("GET /session/w3c-1/window/rect", map[string]int{"x": 1, "y": 2, "width": 800, "height": 600})
	w3c.reply("POST /session/w3c-1/window/new", map[string]string{"handle": "h3", "type": "tab"})
	s := w3c.session(t)

	h, err := s.WindowHandle()
	require.NoError(t, err)
	hv, err := s.WindowHandles()
	require.NoError(t, err)
	require.Equal(t, h.Id(), hv[0].Id())

	require.NoError(t, s.FocusOnWindow("h2"))
	require.Equal(t, map[string]interface{}{"handle": "h2"}, w3c.lastRequest().Body)

	size, err := h.GetSize()
	require.NoError(t, err)
	require.Equal(t, Size{800, 600}, size)
	position, err := h.GetPosition()
	require.NoError(t, err)
	require.Equal(t, Position{1, 2}, position)

	created, err := s.NewWindow("tab")
	require.NoError(t, err)
	require.Equal(t, "h3", created.Id())

	oss := newFakeDriver(t, DialectOSS)
	oss.reply("POST /session/oss-1/window", nil)
	oss.reply("GET /session/oss-1/window/current/size", map[string]int{"width": 640, "height": 480})
	s = oss.session(t)

	require.NoError(t, s.FocusOnWindow("main"))
	require.Equal(t, map[string]interface{}{"name": "main"}, oss.lastRequest().Body)
	size, err = s.GetCurrentWindowHandle().GetSize()
	require.NoError(t, err)
	require.Equal(t, Size{640, 480}, size)
}

func TestElements(t *testing.T) {
	t.Parallel()

	w3c := newFakeDriver(t, DialectW3C)
	w3c.reply("POST /session/w3c-1/element", map[string]string{w3cElementKey: "e1"})
	w3c.reply("POST /session/w3c-1/element/e1/element", map[string]string{w3cElementKey: "e2"})
	w3c.reply("POST /session/w3c-1/element/e1/click", nil)
	w3c.reply("POST /session/w3c-1/element/e1/value", nil)
	w3c.reply("GET /session/w3c-1/element/e2/text", "longwordlinktogolang")
	w3c.reply("GET /session/w3c-1/element/e1/attribute/href", nil)
	w3c.reply("POST /session/w3c-1/frame", nil)
	s := w3c.session(t)

	we, err := s.FindElement(ID, "foo")
	require.NoError(t, err)
	require.Equal(t, "e1", we.Id())
	require.Equal(t, map[string]interface{}{"using": "id", "value": "foo"}, w3c.lastRequest().Body)

	we2, err := we.FindElement(PartialLinkText, "linktogo")
	require.NoError(t, err)
	text, err := we2.Text()
	require.NoError(t, err)
	require.Equal(t, "longwordlinktogolang", text)

	require.NoError(t, we.Click())
	require.Equal(t, "/session/w3c-1/element/e1/click", w3c.lastRequest().Path)

	require.NoError(t, we.SendKeys("hi"))
	require.Equal(t, "hi", w3c.lastRequest().Body["text"])
	require.Equal(t, []interface{}{"h", "i"}, w3c.lastRequest().Body["value"])

	href, err := we.GetAttribute("href")
	require.NoError(t, err)
	require.Equal(t, "", href)

	require.NoError(t, s.FocusOnFrame(we))
	require.Equal(t, map[string]interface{}{w3cElementKey: "e1", ossElementKey: "e1"}, w3c.lastRequest().Body["id"])
	require.Error(t, s.FocusOnFrame(3.5))

	oss := newFakeDriver(t, DialectOSS)
	oss.reply("POST /session/oss-1/elements", []map[string]string{{ossElementKey: "a"}, {ossElementKey: "b"}})
	oss.reply("GET /session/oss-1/element/a/selected", true)
	s = oss.session(t)

	wev, err := s.FindElements(TagName, "input")
	require.NoError(t, err)
	require.Len(t, wev, 2)
	require.Equal(t, "b", wev[1].Id())
	selected, err := wev[0].IsSelected()
	require.NoError(t, err)
	require.True(t, selected)
}

func TestScriptsAndScreenshot(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectW3C)
	f.handle("POST /session/w3c-1/execute/sync", func(req fakeRequest) fakeReply {
		args, _ := req.Body["args"].([]interface{})
		sum := 0.0
		for _, a := range args {
			n, _ := a.(float64)
			sum += n
		}
		return f.ok(sum)
	})
	f.reply("GET /session/w3c-1/screenshot", base64.StdEncoding.EncodeToString([]byte("\x89PNG fake")))
	s := f.session(t)

	res, err := s.ExecuteScript("return arguments[0] + arguments[1]", []interface{}{4, 7})
	require.NoError(t, err)
	require.Equal(t, "11", strings.TrimSpace(string(res)))

	_, err = s.ExecuteScript("return 1", nil)
	require.NoError(t, err)
	require.Equal(t, []interface{}{}, f.lastRequest().Body["args"])

	png, err := s.Screenshot()
	require.NoError(t, err)
	require.Equal(t, []byte("\x89PNG fake"), png)
}

func TestCookies(t *testing.T) {
	t.Parallel()

	oss := newFakeDriver(t, DialectOSS)
	oss.reply("GET /session/oss-1/cookie", []Cookie{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}})
	oss.reply("POST /session/oss-1/cookie", nil)
	oss.reply("DELETE /session/oss-1/cookie/b", nil)
	s := oss.session(t)

	cookie, err := s.GetCookie("b")
	require.NoError(t, err)
	require.Equal(t, "2", cookie.Value)
	_, err = s.GetCookie("c")
	require.ErrorIs(t, err, protocol.ErrNoSuchCookie)

	require.NoError(t, s.SetCookie(Cookie{Name: "c", Value: "3"}))
	require.Equal(t, map[string]interface{}{"name": "c", "value": "3"}, oss.lastRequest().Body["cookie"])
	require.NoError(t, s.DeleteCookieByName("b"))

	w3c := newFakeDriver(t, DialectW3C)
	w3c.reply("GET /session/w3c-1/cookie/a b", Cookie{Name: "a b", Value: "1"})
	s = w3c.session(t)
	cookie, err = s.GetCookie("a b")
	require.NoError(t, err)
	require.Equal(t, "a b", cookie.Name)
}

func TestAlerts(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectW3C)
	f.reply("GET /session/w3c-1/alert/text", "are you sure?")
	f.reply("POST /session/w3c-1/alert/text", nil)
	f.reply("POST /session/w3c-1/alert/accept", nil)
	f.handle("POST /session/w3c-1/alert/dismiss", func(fakeRequest) fakeReply {
		return w3cFailure(http.StatusNotFound, "no such alert", "no alert open")
	})
	s := f.session(t)

	text, err := s.GetAlertText()
	require.NoError(t, err)
	require.Equal(t, "are you sure?", text)
	require.NoError(t, s.SetAlertText("yes"))
	require.Equal(t, map[string]interface{}{"text": "yes"}, f.lastRequest().Body)
	require.NoError(t, s.AcceptAlert())
	require.ErrorIs(t, s.DismissAlert(), protocol.ErrNoSuchAlert)
}

func TestSafariCommands(t *testing.T) {
	t.Parallel()
	f := newFakeDriver(t, DialectW3C)
	f.reply("GET /session/w3c-1/apple/permissions", map[string]interface{}{"permissions": map[string]bool{"getUserMedia": true}})
	f.reply("POST /session/w3c-1/apple/permissions", nil)
	f.reply("GET /session/w3c-1/title", "safari")

	d := f.driver(t)
	d.Catalog = SafariCommands
	s, err := d.NewSession(nil, nil)
	require.NoError(t, err)

	permissions, err := s.GetPermissions()
	require.NoError(t, err)
	require.True(t, permissions["getUserMedia"])
	require.NoError(t, s.SetPermissions(map[string]bool{"getUserMedia": false}))

	// base W3C commands still resolve
	title, err := s.Title()
	require.NoError(t, err)
	require.Equal(t, "safari", title)

	// a plain W3C session has no Apple commands
	_, err = newFakeDriver(t, DialectW3C).session(t).GetPermissions()
	require.ErrorIs(t, err, protocol.ErrUnknownCommand)
}

func TestSessionBiDi(t *testing.T) {
	t.Parallel()
	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	upgrader := websocket.Upgrader{}
	ws := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var cmd struct {
				ID     int64  `json:"id"`
				Method string `json:"method"`
			}
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			_ = conn.WriteJSON(map[string]interface{}{
				"id": cmd.ID, "type": "success", "result": map[string]string{"method": cmd.Method},
			})
		}
	}))
	defer ws.Close()

	f := newFakeDriver(t, DialectW3C)
	wsUrl := "ws" + strings.TrimPrefix(ws.URL, "http") + "/session/w3c-1"
	f.handle("POST /session", f.newSessionReply(Capabilities{"webSocketUrl": wsUrl}))
	s := f.session(t)
	require.Equal(t, DialectBiDi, s.Dialect())

	conn, err := s.BiDi(ctx)
	require.NoError(t, err)
	defer conn.Close()
	result, err := conn.SendCommand(ctx, "session.status", nil)
	require.NoError(t, err)
	var reply map[string]string
	require.NoError(t, json.Unmarshal(result, &reply))
	require.Equal(t, "session.status", reply["method"])

	_, err = newFakeDriver(t, DialectW3C).session(t).BiDi(ctx)
	var noSession *protocol.NoSuchSessionError
	require.ErrorAs(t, err, &noSession)
}
