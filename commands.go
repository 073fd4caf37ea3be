// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/SeleniumHQ/selenium-sub066/protocol"
)

//Command is a symbolic WebDriver command. Each dialect maps it to its own
//HTTP verb and path template.
type Command int

const (
	CmdStatus Command = iota + 1
	CmdNewSession
	CmdGetSessions
	CmdGetCapabilities
	CmdQuit

	CmdGetTimeouts
	CmdSetTimeout
	CmdSetScriptTimeout
	CmdImplicitlyWait

	CmdGet
	CmdGetCurrentURL
	CmdGoBack
	CmdGoForward
	CmdRefresh
	CmdGetTitle
	CmdGetPageSource

	CmdGetCurrentWindowHandle
	CmdGetWindowHandles
	CmdSwitchToWindow
	CmdCloseWindow
	CmdNewWindow
	CmdGetWindowSize
	CmdSetWindowSize
	CmdGetWindowPosition
	CmdSetWindowPosition
	CmdGetWindowRect
	CmdSetWindowRect
	CmdMaximizeWindow
	CmdMinimizeWindow
	CmdFullscreenWindow
	CmdSwitchToFrame
	CmdSwitchToParentFrame

	CmdExecuteScript
	CmdExecuteAsyncScript
	CmdScreenshot
	CmdElementScreenshot

	CmdGetCookies
	CmdGetCookie
	CmdAddCookie
	CmdDeleteCookie
	CmdDeleteAllCookies

	CmdFindElement
	CmdFindElements
	CmdFindChildElement
	CmdFindChildElements
	CmdGetActiveElement
	CmdClickElement
	CmdSubmitElement
	CmdClearElement
	CmdSendKeysToElement
	CmdGetElementText
	CmdGetElementTagName
	CmdGetElementAttribute
	CmdGetElementProperty
	CmdIsElementSelected
	CmdIsElementEnabled
	CmdIsElementDisplayed

	CmdGetAlertText
	CmdSetAlertValue
	CmdAcceptAlert
	CmdDismissAlert

	CmdGetLog
	CmdGetAvailableLogTypes

	CmdGetPermissions
	CmdSetPermissions
	CmdAttachDebugger
)

var commandNames = map[Command]string{
	CmdStatus:          "status",
	CmdNewSession:      "new_session",
	CmdGetSessions:     "get_sessions",
	CmdGetCapabilities: "get_capabilities",
	CmdQuit:            "quit",

	CmdGetTimeouts:      "get_timeouts",
	CmdSetTimeout:       "set_timeout",
	CmdSetScriptTimeout: "set_script_timeout",
	CmdImplicitlyWait:   "implicitly_wait",

	CmdGet:           "get",
	CmdGetCurrentURL: "get_current_url",
	CmdGoBack:        "go_back",
	CmdGoForward:     "go_forward",
	CmdRefresh:       "refresh",
	CmdGetTitle:      "get_title",
	CmdGetPageSource: "get_page_source",

	CmdGetCurrentWindowHandle: "get_current_window_handle",
	CmdGetWindowHandles:       "get_window_handles",
	CmdSwitchToWindow:         "switch_to_window",
	CmdCloseWindow:            "close_window",
	CmdNewWindow:              "new_window",
	CmdGetWindowSize:          "get_window_size",
	CmdSetWindowSize:          "set_window_size",
	CmdGetWindowPosition:      "get_window_position",
	CmdSetWindowPosition:      "set_window_position",
	CmdGetWindowRect:          "get_window_rect",
	CmdSetWindowRect:          "set_window_rect",
	CmdMaximizeWindow:         "maximize_window",
	CmdMinimizeWindow:         "minimize_window",
	CmdFullscreenWindow:       "fullscreen_window",
	CmdSwitchToFrame:          "switch_to_frame",
	CmdSwitchToParentFrame:    "switch_to_parent_frame",

	CmdExecuteScript:      "execute_script",
	CmdExecuteAsyncScript: "execute_async_script",
	CmdScreenshot:         "screenshot",
	CmdElementScreenshot:  "element_screenshot",

	CmdGetCookies:       "get_cookies",
	CmdGetCookie:        "get_cookie",
	CmdAddCookie:        "add_cookie",
	CmdDeleteCookie:     "delete_cookie",
	CmdDeleteAllCookies: "delete_all_cookies",

	CmdFindElement:         "find_element",
	CmdFindElements:        "find_elements",
	CmdFindChildElement:    "find_child_element",
	CmdFindChildElements:   "find_child_elements",
	CmdGetActiveElement:    "get_active_element",
	CmdClickElement:        "click_element",
	CmdSubmitElement:       "submit_element",
	CmdClearElement:        "clear_element",
	CmdSendKeysToElement:   "send_keys_to_element",
	CmdGetElementText:      "get_element_text",
	CmdGetElementTagName:   "get_element_tag_name",
	CmdGetElementAttribute: "get_element_attribute",
	CmdGetElementProperty:  "get_element_property",
	CmdIsElementSelected:   "is_element_selected",
	CmdIsElementEnabled:    "is_element_enabled",
	CmdIsElementDisplayed:  "is_element_displayed",

	CmdGetAlertText:  "get_alert_text",
	CmdSetAlertValue: "set_alert_value",
	CmdAcceptAlert:   "accept_alert",
	CmdDismissAlert:  "dismiss_alert",

	CmdGetLog:               "get_log",
	CmdGetAvailableLogTypes: "get_available_log_types",

	CmdGetPermissions: "get_permissions",
	CmdSetPermissions: "set_permissions",
	CmdAttachDebugger: "attach_debugger",
}

var commandsByName = func() map[string]Command {
	m := make(map[string]Command, len(commandNames))
	for c, n := range commandNames {
		m[n] = c
	}
	return m
}()

func (c Command) String() string {
	if n, found := commandNames[c]; found {
		return n
	}
	return "command(" + strconv.Itoa(int(c)) + ")"
}

//LookupCommand returns the command with the given symbolic name.
func LookupCommand(name string) (Command, error) {
	if c, found := commandsByName[name]; found {
		return c, nil
	}
	return 0, &protocol.UnknownCommandError{Name: name}
}

//CommandInfo is the wire form of a command in one dialect.
type CommandInfo struct {
	Method string
	Path   string
}

//CommandCatalog maps commands to their wire form. Catalogs are immutable
//once built; a catalog with a base falls back to it for commands it does
//not define itself.
type CommandCatalog struct {
	name    string
	base    *CommandCatalog
	entries map[Command]CommandInfo
}

func newCatalog(name string, base *CommandCatalog, entries map[Command]CommandInfo) *CommandCatalog {
	return &CommandCatalog{name: name, base: base, entries: entries}
}

//Extend returns a new catalog that overrides or adds entries on top of c.
func (c *CommandCatalog) Extend(name string, entries map[Command]CommandInfo) *CommandCatalog {
	cp := make(map[Command]CommandInfo, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return newCatalog(name, c, cp)
}

func (c *CommandCatalog) Name() string { return c.name }

//Resolve returns the wire form of cmd, consulting the base chain when c does
//not define it.
func (c *CommandCatalog) Resolve(cmd Command) (CommandInfo, error) {
	for cat := c; cat != nil; cat = cat.base {
		if info, found := cat.entries[cmd]; found {
			return info, nil
		}
	}
	return CommandInfo{}, &protocol.UnknownCommandError{Name: cmd.String()}
}

//ResolveName is LookupCommand followed by Resolve.
func (c *CommandCatalog) ResolveName(name string) (CommandInfo, error) {
	cmd, err := LookupCommand(name)
	if err != nil {
		return CommandInfo{}, err
	}
	return c.Resolve(cmd)
}

//Commands lists every command resolvable through c, in declaration order.
func (c *CommandCatalog) Commands() []Command {
	seen := map[Command]bool{}
	for cat := c; cat != nil; cat = cat.base {
		for cmd := range cat.entries {
			seen[cmd] = true
		}
	}
	cmds := make([]Command, 0, len(seen))
	for cmd := range seen {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i] < cmds[j] })
	return cmds
}

const (
	get  = http.MethodGet
	post = http.MethodPost
	del  = http.MethodDelete
)

////////////////////////////////////////////////////////////////////////////////
// COMMAND TABLES
// JSON Wire Protocol: https://code.google.com/p/selenium/wiki/JsonWireProtocol
// W3C WebDriver: https://www.w3.org/TR/webdriver/
////////////////////////////////////////////////////////////////////////////////

var OSSCommands = newCatalog("oss", nil, map[Command]CommandInfo{
	CmdStatus:          {get, "status"},
	CmdNewSession:      {post, "session"},
	CmdGetSessions:     {get, "sessions"},
	CmdGetCapabilities: {get, "session/:session_id"},
	CmdQuit:            {del, "session/:session_id"},

	CmdSetTimeout:       {post, "session/:session_id/timeouts"},
	CmdSetScriptTimeout: {post, "session/:session_id/timeouts/async_script"},
	CmdImplicitlyWait:   {post, "session/:session_id/timeouts/implicit_wait"},

	CmdGet:           {post, "session/:session_id/url"},
	CmdGetCurrentURL: {get, "session/:session_id/url"},
	CmdGoBack:        {post, "session/:session_id/back"},
	CmdGoForward:     {post, "session/:session_id/forward"},
	CmdRefresh:       {post, "session/:session_id/refresh"},
	CmdGetTitle:      {get, "session/:session_id/title"},
	CmdGetPageSource: {get, "session/:session_id/source"},

	CmdGetCurrentWindowHandle: {get, "session/:session_id/window_handle"},
	CmdGetWindowHandles:       {get, "session/:session_id/window_handles"},
	CmdSwitchToWindow:         {post, "session/:session_id/window"},
	CmdCloseWindow:            {del, "session/:session_id/window"},
	CmdGetWindowSize:          {get, "session/:session_id/window/:window_handle/size"},
	CmdSetWindowSize:          {post, "session/:session_id/window/:window_handle/size"},
	CmdGetWindowPosition:      {get, "session/:session_id/window/:window_handle/position"},
	CmdSetWindowPosition:      {post, "session/:session_id/window/:window_handle/position"},
	CmdMaximizeWindow:         {post, "session/:session_id/window/:window_handle/maximize"},
	CmdSwitchToFrame:          {post, "session/:session_id/frame"},
	CmdSwitchToParentFrame:    {post, "session/:session_id/frame/parent"},

	CmdExecuteScript:      {post, "session/:session_id/execute"},
	CmdExecuteAsyncScript: {post, "session/:session_id/execute_async"},
	CmdScreenshot:         {get, "session/:session_id/screenshot"},

	CmdGetCookies:       {get, "session/:session_id/cookie"},
	CmdAddCookie:        {post, "session/:session_id/cookie"},
	CmdDeleteCookie:     {del, "session/:session_id/cookie/:name"},
	CmdDeleteAllCookies: {del, "session/:session_id/cookie"},

	CmdFindElement:         {post, "session/:session_id/element"},
	CmdFindElements:        {post, "session/:session_id/elements"},
	CmdFindChildElement:    {post, "session/:session_id/element/:id/element"},
	CmdFindChildElements:   {post, "session/:session_id/element/:id/elements"},
	CmdGetActiveElement:    {post, "session/:session_id/element/active"},
	CmdClickElement:        {post, "session/:session_id/element/:id/click"},
	CmdSubmitElement:       {post, "session/:session_id/element/:id/submit"},
	CmdClearElement:        {post, "session/:session_id/element/:id/clear"},
	CmdSendKeysToElement:   {post, "session/:session_id/element/:id/value"},
	CmdGetElementText:      {get, "session/:session_id/element/:id/text"},
	CmdGetElementTagName:   {get, "session/:session_id/element/:id/name"},
	CmdGetElementAttribute: {get, "session/:session_id/element/:id/attribute/:name"},
	CmdIsElementSelected:   {get, "session/:session_id/element/:id/selected"},
	CmdIsElementEnabled:    {get, "session/:session_id/element/:id/enabled"},
	CmdIsElementDisplayed:  {get, "session/:session_id/element/:id/displayed"},

	CmdGetAlertText:  {get, "session/:session_id/alert_text"},
	CmdSetAlertValue: {post, "session/:session_id/alert_text"},
	CmdAcceptAlert:   {post, "session/:session_id/accept_alert"},
	CmdDismissAlert:  {post, "session/:session_id/dismiss_alert"},

	CmdGetLog:               {post, "session/:session_id/log"},
	CmdGetAvailableLogTypes: {get, "session/:session_id/log/types"},
})

var W3CCommands = newCatalog("w3c", nil, map[Command]CommandInfo{
	CmdStatus:     {get, "status"},
	CmdNewSession: {post, "session"},
	CmdQuit:       {del, "session/:session_id"},

	CmdGetTimeouts: {get, "session/:session_id/timeouts"},
	CmdSetTimeout:  {post, "session/:session_id/timeouts"},

	CmdGet:           {post, "session/:session_id/url"},
	CmdGetCurrentURL: {get, "session/:session_id/url"},
	CmdGoBack:        {post, "session/:session_id/back"},
	CmdGoForward:     {post, "session/:session_id/forward"},
	CmdRefresh:       {post, "session/:session_id/refresh"},
	CmdGetTitle:      {get, "session/:session_id/title"},
	CmdGetPageSource: {get, "session/:session_id/source"},

	CmdGetCurrentWindowHandle: {get, "session/:session_id/window"},
	CmdGetWindowHandles:       {get, "session/:session_id/window/handles"},
	CmdSwitchToWindow:         {post, "session/:session_id/window"},
	CmdCloseWindow:            {del, "session/:session_id/window"},
	CmdNewWindow:              {post, "session/:session_id/window/new"},
	CmdGetWindowRect:          {get, "session/:session_id/window/rect"},
	CmdSetWindowRect:          {post, "session/:session_id/window/rect"},
	CmdMaximizeWindow:         {post, "session/:session_id/window/maximize"},
	CmdMinimizeWindow:         {post, "session/:session_id/window/minimize"},
	CmdFullscreenWindow:       {post, "session/:session_id/window/fullscreen"},
	CmdSwitchToFrame:          {post, "session/:session_id/frame"},
	CmdSwitchToParentFrame:    {post, "session/:session_id/frame/parent"},

	CmdExecuteScript:      {post, "session/:session_id/execute/sync"},
	CmdExecuteAsyncScript: {post, "session/:session_id/execute/async"},
	CmdScreenshot:         {get, "session/:session_id/screenshot"},
	CmdElementScreenshot:  {get, "session/:session_id/element/:id/screenshot"},

	CmdGetCookies:       {get, "session/:session_id/cookie"},
	CmdGetCookie:        {get, "session/:session_id/cookie/:name"},
	CmdAddCookie:        {post, "session/:session_id/cookie"},
	CmdDeleteCookie:     {del, "session/:session_id/cookie/:name"},
	CmdDeleteAllCookies: {del, "session/:session_id/cookie"},

	CmdFindElement:         {post, "session/:session_id/element"},
	CmdFindElements:        {post, "session/:session_id/elements"},
	CmdFindChildElement:    {post, "session/:session_id/element/:id/element"},
	CmdFindChildElements:   {post, "session/:session_id/element/:id/elements"},
	CmdGetActiveElement:    {get, "session/:session_id/element/active"},
	CmdClickElement:        {post, "session/:session_id/element/:id/click"},
	CmdClearElement:        {post, "session/:session_id/element/:id/clear"},
	CmdSendKeysToElement:   {post, "session/:session_id/element/:id/value"},
	CmdGetElementText:      {get, "session/:session_id/element/:id/text"},
	CmdGetElementTagName:   {get, "session/:session_id/element/:id/name"},
	CmdGetElementAttribute: {get, "session/:session_id/element/:id/attribute/:name"},
	CmdGetElementProperty:  {get, "session/:session_id/element/:id/property/:name"},
	CmdIsElementSelected:   {get, "session/:session_id/element/:id/selected"},
	CmdIsElementEnabled:    {get, "session/:session_id/element/:id/enabled"},

	CmdGetAlertText:  {get, "session/:session_id/alert/text"},
	CmdSetAlertValue: {post, "session/:session_id/alert/text"},
	CmdAcceptAlert:   {post, "session/:session_id/alert/accept"},
	CmdDismissAlert:  {post, "session/:session_id/alert/dismiss"},
})

//SafariCommands adds the Apple specific endpoints of safaridriver.
var SafariCommands = W3CCommands.Extend("safari", map[Command]CommandInfo{
	CmdGetPermissions: {get, "session/:session_id/apple/permissions"},
	CmdSetPermissions: {post, "session/:session_id/apple/permissions"},
	CmdAttachDebugger: {post, "session/:session_id/apple/attach_debugger"},
})

//CatalogFor returns the default catalog for a dialect.
func CatalogFor(d Dialect) *CommandCatalog {
	switch d {
	case DialectW3C, DialectBiDi:
		return W3CCommands
	default:
		return OSSCommands
	}
}
