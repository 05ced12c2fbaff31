// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package relay implements the rendezvous and streaming engine of the piping
// server: a path-keyed registry that matches one sender with its receivers
// and relays the request body through without persisting anything.
package relay

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/DataDog/piping-server/pkg/telemetry"
	"github.com/DataDog/piping-server/pkg/util/log"
)

// Handler is the front door of the relay. It classifies each request into a
// reserved endpoint or a rendezvous path plus role, hands rendezvous requests
// to the registry, and does not return until the response is committed.
type Handler struct {
	registry *Registry
}

// NewHandler returns a relay handler with an empty registry.
func NewHandler() *Handler {
	return &Handler{registry: NewRegistry()}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if isReservedPath(path) {
		if r.Method == http.MethodGet {
			serveReserved(w, path)
			return
		}
		writeRejection(w, telemetry.ReasonReservedPath,
			"Cannot send to the reserved path '%s'. (e.g. '/mypath123')", path)
		return
	}

	switch r.Method {
	case http.MethodPost, http.MethodPut:
		h.send(w, r)
	case http.MethodGet:
		h.receive(w, r)
	default:
		writeRejection(w, telemetry.ReasonBadMethod, "Unsupported method: %s.", r.Method)
	}
}

// send parks a sender on its path until the transfer has drained, the peer
// gives up, or the slot rejects it.
func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	n, err := parseCapacity(r)
	if err != nil {
		// No slot is materialised for a sender with a bad capacity.
		writeRejection(w, telemetry.ReasonBadCapacity, "%v", err)
		return
	}
	log.Debugf("sender %s '%s' n=%d", r.Method, path, n)

	snd := newSender(w, r)
	if h.registry.admitSender(path, snd, n) == rejectedDuplicateSender {
		writeRejection(w, telemetry.ReasonDuplicateSender,
			"Another sender has been connected on '%s'.", path)
		return
	}

	select {
	case <-snd.done:
	case <-r.Context().Done():
		if snd.slot.withdrawSender(snd) {
			log.Debugf("sender on '%s' disconnected while waiting", path)
			return
		}
		// The transfer owns the ResponseWriter until it signals done.
		<-snd.done
	}
}

// receive parks a receiver on its path until the transfer has written its
// response, the peer gives up, or the slot rejects it.
func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	log.Debugf("receiver GET '%s'", path)

	rcv := newReceiver(w, r)
	if h.registry.admitReceiver(path, rcv) == rejectedOverCapacity {
		writeRejection(w, telemetry.ReasonTooManyReceivers,
			"The number of receivers has reached the limit on '%s'.", path)
		return
	}

	select {
	case <-rcv.done:
	case <-r.Context().Done():
		if rcv.slot.withdrawReceiver(rcv) {
			log.Debugf("receiver on '%s' disconnected while waiting", path)
			return
		}
		<-rcv.done
	}

	if rcv.aborted {
		// Tear the connection down rather than ending a chunked response
		// with a clean final chunk the receiver would mistake for EOF.
		panic(http.ErrAbortHandler)
	}
}

// parseCapacity reads the sender's ?n= query parameter. Absent means one
// receiver; anything that is not a positive integer is a client error.
func parseCapacity(r *http.Request) (int, error) {
	values, ok := r.URL.Query()["n"]
	if !ok || len(values) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(values[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number of receivers 'n=%s'", values[0])
	}
	if n <= 0 {
		return 0, fmt.Errorf("the number of receivers must be a positive integer, got %d", n)
	}
	return n, nil
}
