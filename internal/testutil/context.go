// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"
)

//GetTestContext returns a context bounded by the shorter of testTimeout and
//the test binary deadline. TEST_CONTEXT_TIMEOUT (minutes) overrides both,
//which helps when stepping through tests in a debugger.
func GetTestContext(t *testing.T, testTimeout time.Duration) (context.Context, context.CancelFunc) {
	timeoutStr, found := os.LookupEnv("TEST_CONTEXT_TIMEOUT")
	if found {
		timeout, err := strconv.ParseUint(timeoutStr, 10, 16)
		if err != nil {
			panic(fmt.Sprintf("Context timeout value '%s' is invalid: %s", timeoutStr, err.Error()))
		}
		return context.WithTimeout(context.Background(), time.Duration(timeout)*time.Minute)
	}

	deadline, haveDeadline := t.Deadline()

	switch {
	case !haveDeadline && testTimeout == 0:
		return context.WithCancel(context.Background())

	case haveDeadline && testTimeout == 0:
		return context.WithDeadline(context.Background(), deadline)

	case !haveDeadline:
		return context.WithTimeout(context.Background(), testTimeout)

	default:
		testDeadline := time.Now().Add(testTimeout)
		if testDeadline.Before(deadline) {
			return context.WithDeadline(context.Background(), testDeadline)
		}
		return context.WithDeadline(context.Background(), deadline)
	}
}
