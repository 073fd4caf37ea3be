// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package socketlock implements a cross-process mutex on top of TCP port
// binding. Holding the lock means holding a listening socket on a loopback
// port; another process (or Lock) trying to bind the same port waits until
// the holder closes it.
//
// Drivers use it to serialize "pick a free port, then start a browser that
// binds it" between concurrent test processes.
package socketlock

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"
)

const (
	PollInterval = 100 * time.Millisecond

	loopback = "127.0.0.1"
)

var ErrTimeout = errors.New("timed out waiting for socket lock")

//Lock holds a listening socket on a loopback port while locked.
//A Lock is safe for use by multiple goroutines.
type Lock struct {
	port int
	log  logr.Logger

	mu       sync.Mutex
	listener net.Listener
}

func New(port int, log logr.Logger) *Lock {
	return &Lock{port: port, log: log.WithValues("port", port)}
}

func (l *Lock) Port() int { return l.port }

func (l *Lock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listener != nil
}

//Lock binds the port, retrying every PollInterval while it is in use, until
//timeout elapses or ctx is done. Only "address in use" is retried; any other
//bind failure is returned immediately. Locking an already locked Lock is a
//no-op.
func (l *Lock) Lock(ctx context.Context, timeout time.Duration) error {
	if l.Locked() {
		return nil
	}

	address := net.JoinHostPort(loopback, strconv.Itoa(l.port))
	lc := net.ListenConfig{Control: controlNoInherit}
	start := time.Now()
	attempts := 0
	var ln net.Listener

	err := wait.PollUntilContextTimeout(ctx, PollInterval, timeout, true /* try immediately */, func(ctx context.Context) (bool, error) {
		attempts++
		var listenErr error
		ln, listenErr = lc.Listen(ctx, "tcp", address)
		if listenErr == nil {
			return true, nil
		}
		if isAddressInUse(listenErr) {
			return false, nil
		}
		return false, listenErr
	})
	switch {
	case err == nil:
	case wait.Interrupted(err) && ctx.Err() == nil:
		return fmt.Errorf("%w: port %d still in use after %s", ErrTimeout, l.port, timeout)
	case wait.Interrupted(err):
		return fmt.Errorf("lock port %d: %w", l.port, ctx.Err())
	default:
		return fmt.Errorf("lock port %d: %w", l.port, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener != nil {
		// another goroutine won the race on this same Lock
		return ln.Close()
	}
	l.listener = ln
	l.log.V(1).Info("socket lock acquired", "attempts", attempts, "waited", time.Since(start))
	return nil
}

//Unlock closes the held socket. Calling it on an unlocked Lock does
//nothing.
func (l *Lock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener == nil {
		return nil
	}
	err := l.listener.Close()
	l.listener = nil
	if err != nil {
		return fmt.Errorf("unlock port %d: %w", l.port, err)
	}
	l.log.V(1).Info("socket lock released")
	return nil
}

//WithLock runs f while holding the lock.
func (l *Lock) WithLock(ctx context.Context, timeout time.Duration, f func() error) (err error) {
	if err = l.Lock(ctx, timeout); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, l.Unlock())
	}()
	return f()
}

func controlNoInherit(_, _ string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		opErr = setNoInherit(fd)
	})
	if err != nil {
		return err
	}
	return opErr
}
