// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The package implements a WebDriver client that communicates with a browser
// driver using either the JSON Wire Protocol or W3C WebDriver. The dialect is
// chosen by the server when the session is created and never changes.
//
// See https://code.google.com/p/selenium/wiki/JsonWireProtocol and
// https://www.w3.org/TR/webdriver/
//
// Commands are symbolic (see Command) and mapped to HTTP requests by a
// CommandCatalog. A Bridge carries one session through its lifecycle and
// turns error replies into *protocol.CommandError values:
//
//	_, err := session.FindElement(webdriver.ID, "missing")
//	if errors.Is(err, protocol.ErrNoSuchElement) {
//		...
//	}
//
// Sessions created with the "webSocketUrl" capability speak WebDriver BiDi as
// well, see Session.BiDi and package bidi.
//
// Example:
//	chromeDriver := webdriver.NewChromeDriver("/path/to/chromedriver")
//	err := chromeDriver.Start()
//	if err != nil {
//		log.Println(err)
//	}
//	desired := webdriver.Capabilities{"browserName": "chrome"}
//	required := webdriver.Capabilities{}
//	session, err := chromeDriver.NewSession(desired, required)
//	if err != nil {
//		log.Println(err)
//	}
//	err = session.Url("http://golang.org")
//	if err != nil {
//		log.Println(err)
//	}
//	session.Quit()
//	chromeDriver.Stop()
package webdriver
