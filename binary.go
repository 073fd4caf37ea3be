// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
)

const (
	//Path of chromedriver, overrides the PATH lookup.
	WEBDRIVER_CHROME_DRIVER = "WEBDRIVER_CHROME_DRIVER"
	//Path of geckodriver, overrides the PATH lookup.
	WEBDRIVER_GECKO_DRIVER = "WEBDRIVER_GECKO_DRIVER"
	//Path of safaridriver, overrides the PATH lookup.
	WEBDRIVER_SAFARI_DRIVER = "WEBDRIVER_SAFARI_DRIVER"
)

//BinaryLocator finds a driver executable once: first the environment
//variable, then the executable names on PATH. The result, error included, is
//kept for later calls.
type BinaryLocator struct {
	EnvVar string
	Names  []string

	once sync.Once
	path string
	err  error
}

func NewBinaryLocator(envVar string, names ...string) *BinaryLocator {
	return &BinaryLocator{EnvVar: envVar, Names: names}
}

func (l *BinaryLocator) Find() (string, error) {
	l.once.Do(func() {
		l.path, l.err = l.find()
	})
	return l.path, l.err
}

func (l *BinaryLocator) find() (string, error) {
	if l.EnvVar != "" {
		if path, found := os.LookupEnv(l.EnvVar); found && path != "" {
			info, err := os.Stat(path)
			if err != nil {
				return "", fmt.Errorf("%s=%s: %w", l.EnvVar, path, err)
			}
			if info.IsDir() {
				return "", fmt.Errorf("%s=%s: is a directory", l.EnvVar, path)
			}
			return path, nil
		}
	}
	for _, name := range l.Names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("unable to find %v on PATH (set %s to override): %w", l.Names, l.EnvVar, exec.ErrNotFound)
}

var (
	ChromeDriverBinary = NewBinaryLocator(WEBDRIVER_CHROME_DRIVER, "chromedriver")
	GeckoDriverBinary  = NewBinaryLocator(WEBDRIVER_GECKO_DRIVER, "geckodriver")
	SafariDriverBinary = NewBinaryLocator(WEBDRIVER_SAFARI_DRIVER, "safaridriver")
)
