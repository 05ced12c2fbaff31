// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package relay

import (
	"fmt"
	"net/http"

	"github.com/DataDog/piping-server/pkg/telemetry"
)

// sender is the server-side handle of a pending or transferring sender
// request. The handler goroutine that created it blocks until done is closed;
// until then the slot and the pump may write to w.
type sender struct {
	req  *http.Request
	w    http.ResponseWriter
	slot *slot

	// done is closed exactly once, when the response has been fully
	// committed or the transfer gave up on the peer.
	done chan struct{}
}

// receiver is the server-side handle of a pending or transferring receiver
// request.
type receiver struct {
	req  *http.Request
	w    http.ResponseWriter
	slot *slot

	done chan struct{}

	// aborted is set before done is closed when the transfer was truncated
	// by a sender failure. The handler goroutine reads it only after <-done,
	// so the channel close orders the accesses.
	aborted bool
}

func newSender(w http.ResponseWriter, r *http.Request) *sender {
	return &sender{req: r, w: w, done: make(chan struct{})}
}

func newReceiver(w http.ResponseWriter, r *http.Request) *receiver {
	return &receiver{req: r, w: w, done: make(chan struct{})}
}

// writeRejection commits a 400 response with the original server's
// "[ERROR] ..." diagnostic style and counts it.
func writeRejection(w http.ResponseWriter, reason, format string, args ...interface{}) {
	telemetry.RequestsRejected.WithLabelValues(reason).Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, "[ERROR] "+format+"\n", args...)
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
