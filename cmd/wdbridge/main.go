// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/SeleniumHQ/selenium-sub066/internal/commands"
	"github.com/SeleniumHQ/selenium-sub066/internal/logger"
)

const (
	errCommandError = 1
	errSetup        = 2
)

func main() {
	log := logger.New("wdbridge")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root, err := commands.NewRootCmd(log)
	if err != nil {
		exit(log, err, errSetup)
	}
	if err := root.ExecuteContext(ctx); err != nil {
		exit(log, err, errCommandError)
	}
	log.Flush()
}

func exit(log *logger.Logger, err error, code int) {
	log.V(1).Info("exiting", "error", err.Error(), "code", code)
	fmt.Fprintln(os.Stderr, "wdbridge:", err)
	log.Flush()
	os.Exit(code)
}
