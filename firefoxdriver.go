// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import "strconv"

//Mutex port of the Firefox launchers: whoever holds it is picking a port and
//starting a browser.
const FirefoxLockPort = 7054

//FirefoxDriver runs geckodriver.
type FirefoxDriver struct {
	DriverService
	//geckodriver log level (fatal, error, warn, info, config, debug, trace). Default: ""
	LogLevel string
	//Firefox preferences, sent in the "moz:firefoxOptions" capability. Default: see method GetDefaultPrefs
	Prefs map[string]interface{}
}

//An empty path looks geckodriver up with GeckoDriverBinary at Start.
func NewFirefoxDriver(path string) *FirefoxDriver {
	d := &FirefoxDriver{}
	d.setup("geckodriver", path, GeckoDriverBinary, d.switches)
	d.LockPort = FirefoxLockPort
	d.Prefs = GetDefaultPrefs()
	return d
}

func (d *FirefoxDriver) switches(port int) []string {
	switches := []string{"--port", strconv.Itoa(port)}
	if d.LogLevel != "" {
		switches = append(switches, "--log", d.LogLevel)
	}
	return switches
}

// Populate a map with default firefox preferences
func GetDefaultPrefs() map[string]interface{} {
	prefs := map[string]interface{}{
		// Disable cache
		"browser.cache.disk.enable":   false,
		"browser.cache.disk.capacity": 0,
		"browser.cache.memory.enable": true,
		//Disable "do you want to remember this password?"
		"signon.rememberSignons": false,
		//set blank homepage, no welcome page
		"browser.startup.homepage":                 "about:blank",
		"browser.startup.page":                     0,
		"browser.startup.homepage_override.mstone": "ignore",
		// Don't ask if we want to switch default browsers
		"browser.shell.checkDefaultBrowser": false,
		//enable pop-ups
		"dom.disable_open_during_load": false,
		// Disable various autostuff
		"app.update.auto":                        false,
		"extensions.update.enabled":              false,
		"browser.search.update":                  false,
		"browser.safebrowsing.malware.enabled":   false,
		"browser.sessionstore.resume_from_crash": false,
		"browser.tabs.warnOnClose":               false,
		"toolkit.telemetry.enabled":              false,
	}
	return prefs
}

//withFirefoxPrefs returns a copy of caps whose "moz:firefoxOptions" carries
//prefs. Preferences already in caps win.
func withFirefoxPrefs(caps Capabilities, prefs map[string]interface{}) Capabilities {
	if len(prefs) == 0 {
		return caps
	}
	out := Capabilities{}
	for k, v := range caps {
		out[k] = v
	}
	options := map[string]interface{}{}
	if existing, ok := caps["moz:firefoxOptions"].(map[string]interface{}); ok {
		for k, v := range existing {
			options[k] = v
		}
	}
	merged := map[string]interface{}{}
	for k, v := range prefs {
		merged[k] = v
	}
	if existing, ok := options["prefs"].(map[string]interface{}); ok {
		for k, v := range existing {
			merged[k] = v
		}
	}
	options["prefs"] = merged
	out["moz:firefoxOptions"] = options
	return out
}

func (d *FirefoxDriver) NewSession(desired, required Capabilities) (*Session, error) {
	return d.newSession(withFirefoxPrefs(desired, d.Prefs), required)
}
