// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	webdriver "github.com/SeleniumHQ/selenium-sub066"
	"github.com/SeleniumHQ/selenium-sub066/internal/logger"
)

type sessionFlags struct {
	serverUrl    string
	capabilities string
	navigate     string
}

func NewSessionCommand(log *logger.Logger) (*cobra.Command, error) {
	flags := &sessionFlags{}
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Opens a session, optionally loads a page, and quits",
		Long: `Opens a session on a WebDriver server and prints the negotiated dialect
and capabilities. With --navigate the page is loaded and its title printed.
The session is always quit before returning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, flags, log)
		},
	}
	sessionCmd.Flags().StringVar(&flags.serverUrl, "url", defaultServerUrl, "URL of the WebDriver server")
	sessionCmd.Flags().StringVar(&flags.capabilities, "capabilities", `{"browserName":"firefox"}`, "Desired capabilities, as a JSON object")
	sessionCmd.Flags().StringVar(&flags.navigate, "navigate", "", "Page to load once the session is open")
	return sessionCmd, nil
}

func runSession(cmd *cobra.Command, flags *sessionFlags, log *logger.Logger) (err error) {
	var desired webdriver.Capabilities
	if err := json.Unmarshal([]byte(flags.capabilities), &desired); err != nil {
		return fmt.Errorf("invalid --capabilities: %w", err)
	}
	d, err := webdriver.NewRemoteDriver(flags.serverUrl)
	if err != nil {
		return err
	}
	d.Log = log.WithName("session")

	session, err := d.NewSession(desired, nil)
	if err != nil {
		return err
	}
	defer func() {
		if quitErr := session.Quit(); quitErr != nil && err == nil {
			err = quitErr
		}
	}()

	out := cmd.OutOrStdout()
	caps, err := json.Marshal(session.Capabilities)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "session %s (%s)\n%s\n", session.Id, session.Dialect(), caps)

	if flags.navigate == "" {
		return nil
	}
	if err := session.Url(flags.navigate); err != nil {
		return err
	}
	title, err := session.Title()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "title: %s\n", title)
	return nil
}
