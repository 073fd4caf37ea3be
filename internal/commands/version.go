// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"encoding/json"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/SeleniumHQ/selenium-sub066/internal/logger"
)

//Set with -ldflags "-X" at build time.
var (
	Version    = "dev"
	CommitHash = ""
)

type versionInfo struct {
	Version    string `json:"version"`
	CommitHash string `json:"commitHash,omitempty"`
	GoVersion  string `json:"goVersion"`
}

func NewVersionCommand(log *logger.Logger) (*cobra.Command, error) {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Prints version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := json.Marshal(versionInfo{Version: Version, CommitHash: CommitHash, GoVersion: runtime.Version()})
			if err != nil {
				log.Error(err, "could not serialize version information")
				return err
			}
			_, err = cmd.OutOrStdout().Write(withNewline(out))
			return err
		},
	}
	return versionCmd, nil
}
