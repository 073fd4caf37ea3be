// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeleniumHQ/selenium-sub066/internal/logger"
	"github.com/SeleniumHQ/selenium-sub066/socketlock"
)

func NewLockCommand(log *logger.Logger) (*cobra.Command, error) {
	var (
		port    int
		timeout time.Duration
		hold    time.Duration
	)
	lockCmd := &cobra.Command{
		Use:   "lock",
		Short: "Holds a socket lock on a local port",
		Long: `Acquires the machine wide lock represented by a bound local port, as driver
services do around port selection, and holds it for --hold or until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lock := socketlock.New(port, log.WithName("lock"))
			if err := lock.Lock(cmd.Context(), timeout); err != nil {
				return err
			}
			defer lock.Unlock()
			fmt.Fprintf(cmd.OutOrStdout(), "locked port %d\n", port)

			var expired <-chan time.Time
			if hold > 0 {
				timer := time.NewTimer(hold)
				defer timer.Stop()
				expired = timer.C
			}
			select {
			case <-expired:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}
	lockCmd.Flags().IntVar(&port, "port", 7054, "Port used as the lock")
	lockCmd.Flags().DurationVar(&timeout, "timeout", 45*time.Second, "Give up if the lock is not acquired in this time")
	lockCmd.Flags().DurationVar(&hold, "hold", 0, "Release the lock after this long. 0 holds it until interrupted")
	return lockCmd, nil
}
