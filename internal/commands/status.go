// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	webdriver "github.com/SeleniumHQ/selenium-sub066"
	"github.com/SeleniumHQ/selenium-sub066/internal/logger"
)

func NewStatusCommand(log *logger.Logger) (*cobra.Command, error) {
	var serverUrl string
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Prints the status of a WebDriver server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := webdriver.NewRemoteDriver(serverUrl)
			if err != nil {
				return err
			}
			d.Log = log.WithName("status")
			status, err := d.Status()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(withNewline(out))
			return err
		},
	}
	statusCmd.Flags().StringVar(&serverUrl, "url", defaultServerUrl, "URL of the WebDriver server")
	return statusCmd, nil
}

func withNewline(b []byte) []byte {
	return append(b, '\n')
}
