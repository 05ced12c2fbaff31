// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package relay

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/DataDog/piping-server/pkg/telemetry"
	"github.com/DataDog/piping-server/pkg/util/log"
)

// transferChunkSize bounds the memory used per transfer to one chunk times
// the fan-out count.
const transferChunkSize = 32 * 1024

// transfer streams one sender body to the admitted receivers. It owns every
// handle it was given: each done channel is closed exactly once on every exit
// path, which is what releases the parked handler goroutines.
type transfer struct {
	id        string
	path      string
	slot      *slot
	sender    *sender
	receivers []*receiver
}

func (t *transfer) run() {
	defer t.slot.finish()
	telemetry.TransfersStarted.Inc()

	// Commit every receiver's headers before any body byte flows.
	var wg sync.WaitGroup
	for _, rcv := range t.receivers {
		wg.Add(1)
		go func(rcv *receiver) {
			defer wg.Done()
			t.commitReceiverHeaders(rcv)
		}(rcv)
	}
	wg.Wait()

	sw := t.sender.w
	// Without full duplex, net/http discards the unread request body as soon
	// as the sender's response headers are flushed.
	if err := http.NewResponseController(sw).EnableFullDuplex(); err != nil {
		log.Warnf("transfer %s: cannot enable full duplex on '%s': %v", t.id, t.path, err)
	}
	sw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(sw, "[INFO] %d receiver(s) connected.\n", len(t.receivers))
	flush(sw)

	live := append([]*receiver(nil), t.receivers...)
	body := t.sender.req.Body
	buf := make([]byte, transferChunkSize)
	var relayed int64
	for {
		n, err := body.Read(buf)
		if n > 0 {
			relayed += int64(n)
			telemetry.TransferBytes.Add(float64(n))
			live = t.fanout(live, buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.abort(live, relayed, err)
			return
		}
		if len(live) == 0 {
			// Nobody is listening anymore; swallow the rest so the
			// sender still finishes cleanly.
			discarded, _ := io.Copy(io.Discard, body)
			relayed += discarded
			telemetry.TransferBytes.Add(float64(discarded))
			break
		}
	}

	for _, rcv := range live {
		close(rcv.done)
	}

	if len(live) == 0 && len(t.receivers) > 0 {
		fmt.Fprint(sw, "[INFO] All receivers disconnected; remaining bytes were discarded.\n")
		telemetry.TransfersCompleted.WithLabelValues("no_receivers").Inc()
	} else {
		fmt.Fprintf(sw, "[INFO] Sent %d byte(s) to %d receiver(s).\n", relayed, len(live))
		telemetry.TransfersCompleted.WithLabelValues("completed").Inc()
	}
	close(t.sender.done)
	log.Infof("transfer %s: done on '%s', %d byte(s) to %d/%d receiver(s)",
		t.id, t.path, relayed, len(live), len(t.receivers))
}

// commitReceiverHeaders writes one receiver's status line and headers. The
// framing follows the sender: a declared Content-Length is copied through,
// otherwise the response streams chunked.
func (t *transfer) commitReceiverHeaders(rcv *receiver) {
	src := t.sender.req
	h := rcv.w.Header()
	// Suppress content sniffing unless the sender declared a type.
	h["Content-Type"] = nil
	if ct := src.Header.Get("Content-Type"); ct != "" {
		h.Set("Content-Type", ct)
	}
	if cd := src.Header.Get("Content-Disposition"); cd != "" {
		h.Set("Content-Disposition", cd)
	}
	if src.ContentLength >= 0 {
		h.Set("Content-Length", strconv.FormatInt(src.ContentLength, 10))
	}
	h.Set("X-Robots-Tag", "none")
	rcv.w.WriteHeader(http.StatusOK)
	flush(rcv.w)
}

// fanout writes one chunk to every live receiver and returns the survivors.
// Writes are sequential, so the slowest receiver paces the whole transfer;
// a receiver whose write fails is dropped without disturbing the rest.
func (t *transfer) fanout(live []*receiver, chunk []byte) []*receiver {
	remaining := live[:0]
	for _, rcv := range live {
		if _, err := rcv.w.Write(chunk); err != nil {
			log.Debugf("transfer %s: receiver dropped on '%s': %v", t.id, t.path, err)
			close(rcv.done)
			continue
		}
		flush(rcv.w)
		remaining = append(remaining, rcv)
	}
	return remaining
}

// abort truncates the transfer after a sender-side failure. Receivers are
// released with the aborted mark so their connections are torn down instead
// of ending with a clean final chunk.
func (t *transfer) abort(live []*receiver, relayed int64, err error) {
	log.Warnf("transfer %s: sender failed on '%s' after %d byte(s): %v", t.id, t.path, relayed, err)
	for _, rcv := range live {
		rcv.aborted = true
		close(rcv.done)
	}
	telemetry.TransfersCompleted.WithLabelValues("sender_aborted").Inc()
	close(t.sender.done)
}
