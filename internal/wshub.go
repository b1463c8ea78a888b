// Adapted from https://github.com/gorilla/websocket/blob/master/examples/chat/hub.go
// Copyright 2013 The Gorilla WebSocket Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/khoh/go-quizrunner/internal/common"
	"github.com/khoh/go-quizrunner/internal/shutdown"
	"go.uber.org/zap"
)

// Hub maintains the set of active clients and dispatches their play
// commands into the run registry. All commands are processed one at a
// time from the Run loop, so every QuizSession is driven by a single
// actor.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound commands from the clients.
	incomingcommands chan *ClientCommand

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	banks *Banks

	runs *Runs

	log *zap.SugaredLogger
}

func NewHub(banks *Banks, runs *Runs, log *zap.SugaredLogger) *Hub {
	return &Hub{
		incomingcommands: make(chan *ClientCommand),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		clients:          make(map[*Client]bool),
		banks:            banks,
		runs:             runs,
		log:              log,
	}
}

func (h *Hub) Run() {
	ctx := shutdown.Context()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("websocket hub received shutdown signal, exiting")
			shutdown.NotifyShutdownComplete()
			return

		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			h.deregisterClient(client)

		case command := <-h.incomingcommands:
			h.log.Debugf("incoming command: %s, arg: %s", command.cmd, command.arg)
			h.processCommand(command)
		}
	}
}

func (h *Hub) deregisterClient(client *Client) {
	if client == nil {
		return
	}
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.log.Debugf("cleaned up client for player %s", client.playerid)
}

// processCommand executes a single play command against the run
// registry and writes the response frames back to the client.
func (h *Hub) processCommand(command *ClientCommand) {
	client := command.client

	switch command.cmd {
	case "banks":
		h.sendBankList(client)

	case "start":
		bankid, err := strconv.Atoi(command.arg)
		if err != nil {
			h.errorToClient(client, fmt.Sprintf("%q is not a valid bank id", command.arg), "bad-command")
			return
		}
		view, err := h.runs.Start(client.playerid, bankid)
		if err != nil {
			h.playErrorToClient(client, err)
			return
		}
		h.sendView(client, view)

	case "view":
		view, err := h.runs.View(client.playerid)
		if err != nil {
			h.playErrorToClient(client, err)
			return
		}
		h.sendView(client, view)

	case "answer":
		selected, err := strconv.Atoi(command.arg)
		if err != nil {
			h.errorToClient(client, fmt.Sprintf("%q is not a valid option index", command.arg), "bad-command")
			return
		}
		outcome, err := h.runs.Answer(client.playerid, selected)
		if err != nil {
			h.playErrorToClient(client, err)
			return
		}
		h.sendPayload(client, "outcome", outcome)
		if view, err := h.runs.View(client.playerid); err == nil {
			h.sendView(client, view)
		}

	case "next":
		view, err := h.runs.Next(client.playerid)
		if err != nil {
			h.playErrorToClient(client, err)
			return
		}
		h.sendView(client, view)

	case "prev":
		view, err := h.runs.Prev(client.playerid)
		if err != nil {
			h.playErrorToClient(client, err)
			return
		}
		h.sendView(client, view)

	case "jump":
		number, err := strconv.Atoi(command.arg)
		if err != nil {
			// unparseable input is reported the same way as an
			// out-of-range number, with the valid range attached
			view, verr := h.runs.View(client.playerid)
			if verr != nil {
				h.playErrorToClient(client, verr)
				return
			}
			h.playErrorToClient(client, common.NewInvalidJumpTargetError(0, 1, view.Total))
			return
		}
		view, err := h.runs.Jump(client.playerid, number)
		if err != nil {
			h.playErrorToClient(client, err)
			return
		}
		h.sendView(client, view)

	default:
		h.errorToClient(client, fmt.Sprintf("unrecognized command %q", command.cmd), "bad-command")
	}
}

func (h *Hub) sendBankList(client *Client) {
	type bankMeta struct {
		Id        int    `json:"id"`
		Name      string `json:"name"`
		Questions int    `json:"questions"`
	}
	ml := []bankMeta{}
	for _, bank := range h.banks.GetBanks() {
		ml = append(ml, bankMeta{
			Id:        bank.Id,
			Name:      bank.Name,
			Questions: bank.NumQuestions(),
		})
	}
	h.sendPayload(client, "banks", ml)
}

func (h *Hub) sendView(client *Client, view common.QuestionView) {
	h.sendPayload(client, "view", view)
}

func (h *Hub) sendPayload(client *Client, prefix string, payload interface{}) {
	encoded, err := common.ConvertToJSON(payload)
	if err != nil {
		h.log.Warnf("error converting %s payload to JSON: %v", prefix, err)
		return
	}
	h.sendMessageToClient(client, prefix+" "+encoded)
}

// playErrorToClient translates the typed play errors into client
// error frames. Message wording lives here - the session itself never
// formats user-facing text.
func (h *Hub) playErrorToClient(client *Client, err error) {
	var (
		emptyBank *common.EmptyBankError
		already   *common.AlreadyAnsweredError
		invalid   *common.InvalidOptionError
		jump      *common.InvalidJumpTargetError
		noRun     *NoActiveRunError
		unstarted *common.NotStartedError
	)

	switch {
	case errors.As(err, &jump):
		h.errorPayloadToClient(client, errorPayload{
			Message: fmt.Sprintf("Please enter a question number between %d and %d", jump.Min, jump.Max),
			Kind:    "invalid-jump",
			Min:     jump.Min,
			Max:     jump.Max,
		})
	case errors.As(err, &already):
		h.errorToClient(client, "This question has already been answered", "already-answered")
	case errors.As(err, &invalid):
		h.errorToClient(client, "That option does not exist", "invalid-option")
	case errors.As(err, &emptyBank):
		h.errorToClient(client, "That question bank has no questions", "empty-bank")
	case errors.As(err, &noRun), errors.As(err, &unstarted):
		h.errorToClient(client, "Start a quiz first", "no-run")
	default:
		h.errorToClient(client, err.Error(), "error")
	}
}

type errorPayload struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
	Min     int    `json:"min,omitempty"`
	Max     int    `json:"max,omitempty"`
}

func (h *Hub) errorToClient(client *Client, message, kind string) {
	h.errorPayloadToClient(client, errorPayload{Message: message, Kind: kind})
}

func (h *Hub) errorPayloadToClient(client *Client, payload errorPayload) {
	encoded, err := common.ConvertToJSON(payload)
	if err != nil {
		h.log.Warnf("error converting payload for error message: %v", err)
		return
	}
	h.sendMessageToClient(client, "error "+encoded)
}

func (h *Hub) sendMessageToClient(c *Client, s string) {
	if c == nil {
		return
	}
	select {
	case c.send <- []byte(s):
	default:
		h.deregisterClient(c)
	}
}

// used by the REST API
func (h *Hub) GetBanks() []common.QuizBank {
	return h.banks.GetBanks()
}

// used by the REST API
func (h *Hub) GetBank(id int) (common.QuizBank, error) {
	return h.banks.Get(id)
}

// used by the REST API
func (h *Hub) DeleteBank(id int) {
	h.banks.Delete(id)
}

// used by the REST API
func (h *Hub) AddBank(b common.QuizBank) (common.QuizBank, error) {
	return h.banks.Add(b)
}

// used by the REST API
func (h *Hub) UpdateBank(b common.QuizBank) error {
	return h.banks.Update(b)
}

// used by the REST API
func (h *Hub) GetRuns() []common.RunSummary {
	return h.runs.GetAll()
}

// used by the REST API
func (h *Hub) GetRun(playerid string) (common.RunSummary, error) {
	return h.runs.Get(playerid)
}

// used by the REST API
func (h *Hub) DeleteRun(playerid string) {
	h.runs.Delete(playerid)
}
