// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/SeleniumHQ/selenium-sub066/bidi"
	"github.com/SeleniumHQ/selenium-sub066/internal/logger"
)

func NewEventsCommand(log *logger.Logger) (*cobra.Command, error) {
	var (
		wsUrl  string
		events []string
	)
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Prints WebDriver BiDi events",
		Long: `Connects to the webSocketUrl of a BiDi session, subscribes to the given
events and prints each one as a JSON line until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(events) == 0 {
				return errors.New("at least one --event is required")
			}
			return followEvents(cmd, wsUrl, events, log)
		},
	}
	eventsCmd.Flags().StringVar(&wsUrl, "ws-url", "", "webSocketUrl capability of the session")
	eventsCmd.Flags().StringSliceVar(&events, "event", nil, "Event to subscribe to, e.g. log.entryAdded (repeatable)")
	if err := eventsCmd.MarkFlagRequired("ws-url"); err != nil {
		return nil, err
	}
	return eventsCmd, nil
}

type eventLine struct {
	Event  string          `json:"event"`
	Params json.RawMessage `json:"params"`
}

//eventPrinter serializes writes of concurrent handlers.
type eventPrinter struct {
	lock sync.Mutex
	out  io.Writer
}

func (p *eventPrinter) handler(event string) bidi.EventHandler {
	return func(params json.RawMessage) error {
		line, err := json.Marshal(eventLine{Event: event, Params: params})
		if err != nil {
			return err
		}
		p.lock.Lock()
		defer p.lock.Unlock()
		_, err = p.out.Write(withNewline(line))
		return err
	}
}

func followEvents(cmd *cobra.Command, wsUrl string, events []string, log *logger.Logger) error {
	ctx := cmd.Context()
	session, err := bidi.Dial(ctx, wsUrl, log.WithName("events"))
	if err != nil {
		return err
	}
	defer session.Close()

	printer := &eventPrinter{out: cmd.OutOrStdout()}
	for _, event := range events {
		if _, err := session.Listen(ctx, event, printer.handler(event)); err != nil {
			return err
		}
	}

	select {
	case <-ctx.Done():
		return nil
	case <-session.Done():
		return errors.New("connection to the BiDi endpoint was lost")
	}
}
