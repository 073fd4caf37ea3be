// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bidi multiplexes WebDriver BiDi commands and events over a single
// persistent channel.
//
// One reader goroutine owns the incoming stream: replies are routed to the
// caller waiting on the matching command id, events are queued for a
// dispatcher goroutine that runs the callbacks registered for their method.
// Callers only write.
package bidi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/smallnest/chanx"

	"github.com/SeleniumHQ/selenium-sub066/protocol"
)

var ErrClosed = errors.New("BiDi session closed")

//Command ids that gave up waiting are remembered so their late replies are
//dropped quietly. Only the most recent maxAbandoned ids are kept.
const maxAbandoned = 1024

//SubscriptionID identifies a registered event callback.
type SubscriptionID = uuid.UUID

//EventHandler receives the params of an event. A returned error (or a
//panic) is logged and does not affect other handlers.
type EventHandler func(params json.RawMessage) error

type callback struct {
	id SubscriptionID
	fn EventHandler
}

type queuedEvent struct {
	method string
	params json.RawMessage
}

type Session struct {
	ch  Channel
	log logr.Logger

	lastID atomic.Int64

	writeLock sync.Mutex

	//serializes Listen and Unlisten so subscribe/unsubscribe follow the
	//callback count transitions
	subscriptionLock sync.Mutex

	lock      sync.Mutex
	pending   map[int64]chan reply
	abandoned map[int64]struct{}
	callbacks map[string][]callback
	closed    bool
	closeErr  error

	events     *chanx.UnboundedChan[queuedEvent]
	readerDone chan struct{}
	done       chan struct{}
}

//NewSession starts the reader and event dispatcher goroutines on ch.
func NewSession(ch Channel, log logr.Logger) *Session {
	//closing In ends the event queue, so it does not need a context of its own
	s := &Session{
		ch:         ch,
		log:        log,
		pending:    map[int64]chan reply{},
		abandoned:  map[int64]struct{}{},
		callbacks:  map[string][]callback{},
		events:     chanx.NewUnboundedChan[queuedEvent](context.Background(), 16),
		readerDone: make(chan struct{}),
		done:       make(chan struct{}),
	}
	go s.readLoop()
	go s.dispatchLoop()
	return s
}

//Done is closed when the reader goroutine has exited and every event it
//received has been handed to the callbacks.
func (s *Session) Done() <-chan struct{} { return s.done }

//SendCommand sends method with params and waits for its reply.
//
//If ctx ends first the pending slot is dropped and the late reply, if any,
//is discarded when it arrives.
func (s *Session) SendCommand(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	id := s.lastID.Add(1)
	data, err := json.Marshal(command{ID: id, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("encode %s command: %w", method, err)
	}

	replyCh := make(chan reply, 1)
	s.lock.Lock()
	if s.closed {
		closeErr := s.closeErr
		s.lock.Unlock()
		return nil, &protocol.ConnectionError{Op: method, Err: closeErr}
	}
	s.pending[id] = replyCh
	s.lock.Unlock()

	s.log.V(1).Info("->", "id", id, "method", method)
	s.writeLock.Lock()
	err = s.ch.WriteMessage(data)
	s.writeLock.Unlock()
	if err != nil {
		s.dropPending(id, false)
		return nil, &protocol.ConnectionError{Op: method, Err: err}
	}

	select {
	case r := <-replyCh:
		return r.result, r.err
	case <-ctx.Done():
		s.dropPending(id, true)
		return nil, fmt.Errorf("%s (id %d): %w", method, id, ctx.Err())
	}
}

func (s *Session) dropPending(id int64, abandon bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, found := s.pending[id]; !found {
		return
	}
	delete(s.pending, id)
	if !abandon {
		return
	}
	s.abandoned[id] = struct{}{}
	if len(s.abandoned) > maxAbandoned {
		//ids grow monotonically, forget the ones too old to still be in flight
		low := s.lastID.Load() - maxAbandoned
		for old := range s.abandoned {
			if old <= low {
				delete(s.abandoned, old)
			}
		}
	}
}

//PendingCount returns the number of commands waiting for a reply.
func (s *Session) PendingCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.pending)
}

//AddCallback registers fn for events named event. Callbacks run on the
//session's dispatcher goroutine, one event at a time, in registration order.
//A callback may send commands and add or remove callbacks.
//
//Events are only delivered once the remote end has been told to send them,
//see Subscribe and Listen.
func (s *Session) AddCallback(event string, fn EventHandler) SubscriptionID {
	id := uuid.New()
	s.lock.Lock()
	defer s.lock.Unlock()
	s.callbacks[event] = append(s.callbacks[event], callback{id: id, fn: fn})
	return id
}

//RemoveCallback unregisters a callback. It reports whether the callback was
//found.
func (s *Session) RemoveCallback(event string, id SubscriptionID) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	cbs := s.callbacks[event]
	for i, cb := range cbs {
		if cb.id != id {
			continue
		}
		// build a new slice, a dispatch in progress keeps iterating the old one
		rest := make([]callback, 0, len(cbs)-1)
		rest = append(rest, cbs[:i]...)
		rest = append(rest, cbs[i+1:]...)
		if len(rest) == 0 {
			delete(s.callbacks, event)
		} else {
			s.callbacks[event] = rest
		}
		return true
	}
	return false
}

//CallbackCount returns the number of callbacks registered for event.
func (s *Session) CallbackCount(event string) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.callbacks[event])
}

func (s *Session) readLoop() {
	defer close(s.readerDone)
	defer close(s.events.In)
	for {
		msg, err := s.ch.ReadMessage()
		if err != nil {
			s.shutdown(err)
			return
		}
		if dispatchErr := s.dispatch(msg); dispatchErr != nil {
			s.log.Error(dispatchErr, "dropping BiDi frame")
		}
	}
}

//dispatch routes one incoming frame.
func (s *Session) dispatch(msg []byte) error {
	var f frame
	if err := json.Unmarshal(msg, &f); err != nil {
		return &protocol.ProtocolError{Msg: "invalid frame", Err: err}
	}

	if f.ID == nil {
		if f.Method == "" {
			return &protocol.ProtocolError{Msg: "frame has neither id nor method"}
		}
		s.events.In <- queuedEvent{method: f.Method, params: f.Params}
		return nil
	}

	id := *f.ID
	s.lock.Lock()
	replyCh, found := s.pending[id]
	if found {
		delete(s.pending, id)
	}
	_, wasAbandoned := s.abandoned[id]
	delete(s.abandoned, id)
	s.lock.Unlock()

	if !found {
		if wasAbandoned {
			s.log.V(1).Info("discarding late reply", "id", id)
			return nil
		}
		return &protocol.ProtocolError{Msg: fmt.Sprintf("unexpected response id %d", id)}
	}

	var r reply
	if f.Type == typeError || f.Error != "" {
		r.err = protocol.FromW3C(0, f.Error, f.Message, f.Stacktrace, f.Data)
	} else {
		r.result = f.Result
	}
	s.log.V(1).Info("<-", "id", id, "type", f.Type)
	replyCh <- r
	return nil
}

func (s *Session) dispatchLoop() {
	defer close(s.done)
	for e := range s.events.Out {
		s.dispatchEvent(e.method, e.params)
	}
}

func (s *Session) dispatchEvent(event string, params json.RawMessage) {
	s.lock.Lock()
	cbs := s.callbacks[event]
	s.lock.Unlock()

	if len(cbs) == 0 {
		s.log.V(1).Info("event without callbacks", "event", event)
		return
	}
	for _, cb := range cbs {
		s.invoke(event, cb, params)
	}
}

func (s *Session) invoke(event string, cb callback, params json.RawMessage) {
	defer func() {
		if panicVal := recover(); panicVal != nil {
			s.log.Error(fmt.Errorf("%v", panicVal), "BiDi event callback panicked",
				"event", event, "subscription", cb.id.String(), "stack", string(debug.Stack()))
		}
	}()
	if err := cb.fn(params); err != nil {
		s.log.Error(err, "BiDi event callback failed", "event", event, "subscription", cb.id.String())
	}
}

//shutdown fails every pending command and rejects new ones.
func (s *Session) shutdown(cause error) {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return
	}
	s.closed = true
	if cause == nil {
		cause = ErrClosed
	}
	s.closeErr = cause
	pending := s.pending
	s.pending = map[int64]chan reply{}
	s.abandoned = map[int64]struct{}{}
	s.lock.Unlock()

	s.log.V(1).Info("BiDi session shutting down", "reason", cause.Error(), "pending", len(pending))
	for id, ch := range pending {
		ch <- reply{err: &protocol.ConnectionError{Op: fmt.Sprintf("command %d", id), Err: cause}}
	}
}

//Close closes the channel, fails the pending commands and waits for the
//reader goroutine to exit. Queued events are still delivered, wait on Done
//for them.
func (s *Session) Close() error {
	s.shutdown(ErrClosed)
	err := s.ch.Close()
	<-s.readerDone
	return err
}

//Subscribe asks the remote end to start sending the given events.
func (s *Session) Subscribe(ctx context.Context, events ...string) error {
	_, err := s.SendCommand(ctx, methodSubscribe, subscriptionParams{Events: events})
	return err
}

//Unsubscribe asks the remote end to stop sending the given events.
func (s *Session) Unsubscribe(ctx context.Context, events ...string) error {
	_, err := s.SendCommand(ctx, methodUnsubscribe, subscriptionParams{Events: events})
	return err
}

//Listen registers fn for event, subscribing to the event on the remote end
//when fn is its first callback.
func (s *Session) Listen(ctx context.Context, event string, fn EventHandler) (SubscriptionID, error) {
	s.subscriptionLock.Lock()
	defer s.subscriptionLock.Unlock()

	first := s.CallbackCount(event) == 0
	id := s.AddCallback(event, fn)
	if !first {
		return id, nil
	}
	if err := s.Subscribe(ctx, event); err != nil {
		s.RemoveCallback(event, id)
		return uuid.Nil, fmt.Errorf("subscribe to %s: %w", event, err)
	}
	return id, nil
}

//Unlisten removes a callback added with Listen, unsubscribing from the event
//when it was the last one.
func (s *Session) Unlisten(ctx context.Context, event string, id SubscriptionID) error {
	s.subscriptionLock.Lock()
	defer s.subscriptionLock.Unlock()

	if !s.RemoveCallback(event, id) {
		return fmt.Errorf("no callback %s registered for %s", id, event)
	}
	if s.CallbackCount(event) > 0 {
		return nil
	}
	if err := s.Unsubscribe(ctx, event); err != nil {
		return fmt.Errorf("unsubscribe from %s: %w", event, err)
	}
	return nil
}
