//go:build windows

// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package socketlock

import (
	"errors"

	"golang.org/x/sys/windows"
)

func setNoInherit(fd uintptr) error {
	return windows.SetHandleInformation(windows.Handle(fd), windows.HANDLE_FLAG_INHERIT, 0)
}

func isAddressInUse(err error) bool {
	return errors.Is(err, windows.WSAEADDRINUSE)
}
