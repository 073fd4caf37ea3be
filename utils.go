// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
)

const (
	probeDialTimeout  = time.Second
	probeMaxInterval  = time.Second
	probeInitInterval = 50 * time.Millisecond
)

var errProbeTimeout = errors.New("start failed: timeout expired")

//probePort dials port until it accepts a connection, timeout is up, ctx is
//done or alive reports the process that should listen on it is gone.
func probePort(ctx context.Context, port int, timeout time.Duration, alive func() error, log logr.Logger) error {
	address := fmt.Sprintf("127.0.0.1:%d", port)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = probeInitInterval
	policy.MaxInterval = probeMaxInterval
	policy.MaxElapsedTime = timeout

	err := backoff.RetryNotify(func() error {
		if alive != nil {
			if err := alive(); err != nil {
				return backoff.Permanent(err)
			}
		}
		conn, err := net.DialTimeout("tcp", address, probeDialTimeout)
		if err != nil {
			return err
		}
		return conn.Close()
	}, backoff.WithContext(policy, ctx), func(err error, d time.Duration) {
		log.V(1).Info("driver port not ready", "address", address, "error", err.Error(), "retryIn", d)
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("probing %s: %w", address, ctx.Err())
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		// the last dial error, retries ran out
		return fmt.Errorf("%w: %s not reachable after %s: %v", errProbeTimeout, address, timeout, err)
	}
	return err
}
