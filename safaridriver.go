// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"encoding/json"
	"strconv"
)

//SafariDriver runs Apple's safaridriver. Sessions use SafariCommands.
type SafariDriver struct {
	DriverService
	//Enable safaridriver diagnostics logging. Default: false
	Diagnose bool
}

//An empty path looks safaridriver up with SafariDriverBinary at Start.
func NewSafariDriver(path string) *SafariDriver {
	d := &SafariDriver{}
	d.setup("safaridriver", path, SafariDriverBinary, d.switches)
	d.Catalog = SafariCommands
	return d
}

func (d *SafariDriver) switches(port int) []string {
	switches := []string{"-p", strconv.Itoa(port)}
	if d.Diagnose {
		switches = append(switches, "--diagnose")
	}
	return switches
}

//Get the permissions granted to the session (Safari only).
func (s *Session) GetPermissions() (map[string]bool, error) {
	var reply struct {
		Permissions map[string]bool `json:"permissions"`
	}
	data, err := s.execute(CmdGetPermissions, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, err
	}
	return reply.Permissions, nil
}

//Set permissions of the session, e.g. {"getUserMedia": true} (Safari only).
func (s *Session) SetPermissions(permissions map[string]bool) error {
	return s.run(CmdSetPermissions, nil, Params{"permissions": permissions}, nil)
}

//Pause the session and attach the Web Inspector (Safari only).
func (s *Session) AttachDebugger() error {
	return s.run(CmdAttachDebugger, nil, nil, nil)
}
