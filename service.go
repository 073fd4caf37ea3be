// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/phayes/freeport"

	"github.com/SeleniumHQ/selenium-sub066/socketlock"
)

const (
	DefaultStartTimeout    = 20 * time.Second
	DefaultLockPortTimeout = 45 * time.Second

	stopTimeout = 5 * time.Second
)

var ErrNotRunning = errors.New("driver not running")

//DriverService runs a WebDriver server executable (chromedriver,
//geckodriver, safaridriver) on a local port.
type DriverService struct {
	WebDriverCore
	//The port the driver listens on. Default: a free port picked at Start
	Port int
	//Log file to dump the driver stdout/stderr. If "" send to terminal. Default: ""
	LogFile string
	//Start method fails if the driver doesn't accept connections in less than StartTimeout. Default 20s.
	StartTimeout time.Duration
	//Port held as a mutex from port selection until the driver is up, so
	//concurrent starts do not pick the same port. 0 disables. Default: 0
	LockPort int
	//Start method fails if LockPort is not acquired before LockPortTimeout. Default 45s
	LockPortTimeout time.Duration

	name    string
	path    string
	locator *BinaryLocator
	//command line for the given port
	args func(port int) []string
	//path prefix of the server url
	urlPrefix string

	lock    sync.Mutex
	cmd     *exec.Cmd
	logFile *os.File
	exited  chan struct{}
	exitErr error
}

func (d *DriverService) setup(name, path string, locator *BinaryLocator, args func(port int) []string) {
	d.name = name
	d.path = path
	d.locator = locator
	d.args = args
	d.HTTPTimeout = DefaultHTTPTimeout
	d.StartTimeout = DefaultStartTimeout
	d.LockPortTimeout = DefaultLockPortTimeout
}

//Path of the driver executable, empty until found when none was given.
func (d *DriverService) Path() string { return d.path }

//Start launches the driver and waits until it accepts connections.
func (d *DriverService) Start() error {
	return d.StartContext(context.Background())
}

func (d *DriverService) StartContext(ctx context.Context) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	errPrefix := d.name + " start failed: "
	if d.cmd != nil {
		return errors.New(errPrefix + d.name + " already running")
	}
	log := d.logger().WithValues("driver", d.name)

	if d.path == "" && d.locator != nil {
		path, err := d.locator.Find()
		if err != nil {
			return fmt.Errorf("%s%w", errPrefix, err)
		}
		d.path = path
	}

	if d.LockPort > 0 {
		lock := socketlock.New(d.LockPort, log)
		if err := lock.Lock(ctx, d.LockPortTimeout); err != nil {
			return fmt.Errorf("%slocking mutex port: %w", errPrefix, err)
		}
		defer lock.Unlock()
	}

	port := d.Port
	if port == 0 {
		var err error
		if port, err = freeport.GetFreePort(); err != nil {
			return fmt.Errorf("%sno free port: %w", errPrefix, err)
		}
	}

	var out io.Writer = os.Stderr
	var logFile *os.File
	if d.LogFile != "" {
		flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		f, err := os.OpenFile(d.LogFile, flags, 0640)
		if err != nil {
			return fmt.Errorf("%sunable to open log file: %w", errPrefix, err)
		}
		logFile = f
		out = f
	}

	cmd := exec.Command(d.path, d.args(port)...)
	cmd.Stdout = out
	cmd.Stderr = out
	log.V(1).Info("starting driver", "path", d.path, "args", cmd.Args[1:])
	if err := cmd.Start(); err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return fmt.Errorf("%s%w", errPrefix, err)
	}

	exited := make(chan struct{})
	go func() {
		err := cmd.Wait()
		d.exitErr = err
		close(exited)
		log.V(1).Info("driver exited", "pid", cmd.Process.Pid, "error", fmt.Sprint(err))
	}()
	alive := func() error {
		select {
		case <-exited:
			return fmt.Errorf("%s exited: %v", d.name, d.exitErr)
		default:
			return nil
		}
	}

	startTimeout := d.StartTimeout
	if startTimeout == 0 {
		startTimeout = DefaultStartTimeout
	}
	if err := probePort(ctx, port, startTimeout, alive, log); err != nil {
		_ = cmd.Process.Kill()
		<-exited
		if logFile != nil {
			logFile.Close()
		}
		return fmt.Errorf("%s%w", errPrefix, err)
	}

	d.Port = port
	d.cmd = cmd
	d.logFile = logFile
	d.exited = exited
	d.url = fmt.Sprintf("http://127.0.0.1:%d%s", port, d.urlPrefix)
	log.Info("driver started", "url", d.url, "pid", cmd.Process.Pid)
	return nil
}

//Stop interrupts the driver and waits for it to exit, killing it if it
//does not.
func (d *DriverService) Stop() error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.cmd == nil {
		return fmt.Errorf("stop failed: %s: %w", d.name, ErrNotRunning)
	}
	defer func() {
		d.cmd = nil
		d.url = ""
		if d.logFile != nil {
			d.logFile.Close()
			d.logFile = nil
		}
	}()

	// os.Interrupt is not implemented on windows
	if runtime.GOOS == "windows" {
		_ = d.cmd.Process.Kill()
	} else if err := d.cmd.Process.Signal(os.Interrupt); err != nil {
		_ = d.cmd.Process.Kill()
	}
	select {
	case <-d.exited:
	case <-time.After(stopTimeout):
		d.logger().Info("driver did not exit after interrupt, killing it", "driver", d.name)
		_ = d.cmd.Process.Kill()
		<-d.exited
	}
	return nil
}

//Running reports whether the driver process was started and has not exited.
func (d *DriverService) Running() bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.cmd == nil {
		return false
	}
	select {
	case <-d.exited:
		return false
	default:
		return true
	}
}

func (d *DriverService) NewSession(desired, required Capabilities) (*Session, error) {
	return d.newSession(desired, required)
}

func (d *DriverService) Sessions() ([]*Session, error) {
	return d.sessions()
}
