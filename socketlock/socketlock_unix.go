//go:build !windows

// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package socketlock

import (
	"errors"

	"golang.org/x/sys/unix"
)

//Children spawned while the lock is held must not inherit the descriptor,
//otherwise closing it here does not free the port.
func setNoInherit(fd uintptr) error {
	unix.CloseOnExec(int(fd))
	return nil
}

func isAddressInUse(err error) bool {
	return errors.Is(err, unix.EADDRINUSE)
}
