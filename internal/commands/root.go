// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands implements the wdbridge command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/SeleniumHQ/selenium-sub066/internal/logger"
)

const defaultServerUrl = "http://127.0.0.1:4444/wd/hub"

func NewRootCmd(log *logger.Logger) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   "wdbridge",
		Short: "Talks to WebDriver servers",
		Long: `wdbridge sends commands to a WebDriver server (JSON Wire or W3C),
follows WebDriver BiDi events and manages driver port locks.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	log.AddLevelFlag(rootCmd.PersistentFlags())

	constructors := []func(*logger.Logger) (*cobra.Command, error){
		NewStatusCommand,
		NewSessionCommand,
		NewLockCommand,
		NewEventsCommand,
		NewVersionCommand,
	}
	for _, newCmd := range constructors {
		cmd, err := newCmd(log)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(cmd)
	}
	return rootCmd, nil
}
