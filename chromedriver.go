// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
)

type ChromeDriver struct {
	DriverService
	//The URL path prefix to use for all incoming WebDriver REST requests. Default: ""
	BaseUrl string
	//The path to use for the ChromeDriver server log. Default: ./chromedriver.log
	LogPath string
	//Log verbosely. Default: false
	Verbose bool
}

//create a new service using chromedriver.
//An empty path looks chromedriver up with ChromeDriverBinary at Start.
func NewChromeDriver(path string) *ChromeDriver {
	d := &ChromeDriver{}
	d.setup("chromedriver", path, ChromeDriverBinary, d.switches)
	d.LogPath = "chromedriver.log"
	return d
}

func (d *ChromeDriver) switches(port int) []string {
	var switches []string
	switches = append(switches, "--port="+strconv.Itoa(port))
	if d.LogPath != "" {
		switches = append(switches, "--log-path="+d.LogPath)
	}
	if d.BaseUrl != "" {
		switches = append(switches, "--url-base="+d.BaseUrl)
	}
	if d.Verbose {
		switches = append(switches, "--verbose")
	}
	return switches
}

func (d *ChromeDriver) Start() error {
	return d.StartContext(context.Background())
}

//StartContext checks the log path and applies BaseUrl before starting the
//driver like DriverService.StartContext.
func (d *ChromeDriver) StartContext(ctx context.Context) error {
	csferr := "chromedriver start failed: "
	if d.LogPath != "" {
		//check if log-path is writable
		file, err := os.OpenFile(d.LogPath, os.O_WRONLY|os.O_CREATE, 0664)
		if err != nil {
			return errors.New(csferr + "unable to write in log path: " + err.Error())
		}
		file.Close()
	}
	d.urlPrefix = ""
	if d.BaseUrl != "" {
		d.urlPrefix = "/" + strings.Trim(d.BaseUrl, "/")
	}
	return d.DriverService.StartContext(ctx)
}
