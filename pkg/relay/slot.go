// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package relay

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/DataDog/piping-server/pkg/telemetry"
	"github.com/DataDog/piping-server/pkg/util/log"
)

type slotState int

const (
	slotEmpty slotState = iota
	slotSenderWaiting
	slotReceiversWaiting
	slotTransferring
	slotDone
)

type registerOutcome int

const (
	admitted registerOutcome = iota
	rejectedDuplicateSender
	rejectedOverCapacity
)

// errSlotDone reports a registration attempt against a slot that finished
// between the registry lookup and the slot lock. The caller re-runs the
// lookup; the path is reusable.
var errSlotDone = errors.New("slot already done")

// slot is the per-path rendezvous point. One sender and up to capacity
// receivers park here, in any arrival order; when both sides are complete the
// slot hands them to a transfer and steps out of the way.
//
// capacity is zero until the sender arrives. Receivers that arrive first are
// queued without bound and classified once the sender reveals its capacity:
// the first capacity receivers in arrival order are admitted, the rest are
// rejected.
type slot struct {
	key string
	reg *Registry

	mu        sync.Mutex
	state     slotState
	sender    *sender
	capacity  int
	receivers []*receiver
}

func (s *slot) registerSender(snd *sender, n int) (registerOutcome, error) {
	s.mu.Lock()
	if s.state == slotDone {
		s.mu.Unlock()
		return 0, errSlotDone
	}
	if s.sender != nil || s.state == slotTransferring {
		s.mu.Unlock()
		return rejectedDuplicateSender, nil
	}

	snd.slot = s
	s.sender = snd
	s.capacity = n

	// Receivers queued beyond the capacity the sender just revealed are
	// rejected, in arrival order.
	var overflow []*receiver
	if len(s.receivers) > n {
		overflow = s.receivers[n:]
		s.receivers = s.receivers[:n:n]
	}
	if len(s.receivers) == n {
		s.startTransferLocked()
	} else {
		s.state = slotSenderWaiting
	}
	s.mu.Unlock()

	for _, rcv := range overflow {
		telemetry.PendingReceivers.Dec()
		writeRejection(rcv.w, telemetry.ReasonTooManyReceivers,
			"The number of receivers has reached the limit on '%s'.", s.key)
		close(rcv.done)
	}
	return admitted, nil
}

func (s *slot) registerReceiver(rcv *receiver) (registerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case slotDone:
		return 0, errSlotDone
	case slotTransferring:
		return rejectedOverCapacity, nil
	case slotSenderWaiting:
		if len(s.receivers) >= s.capacity {
			return rejectedOverCapacity, nil
		}
		rcv.slot = s
		s.receivers = append(s.receivers, rcv)
		telemetry.PendingReceivers.Inc()
		if len(s.receivers) == s.capacity {
			s.startTransferLocked()
		}
		return admitted, nil
	default: // slotEmpty, slotReceiversWaiting: capacity unknown, queue unbounded
		rcv.slot = s
		s.receivers = append(s.receivers, rcv)
		telemetry.PendingReceivers.Inc()
		s.state = slotReceiversWaiting
		return admitted, nil
	}
}

// withdrawSender removes a pending sender whose peer disconnected. It reports
// false once a transfer owns the handles; the caller must then keep waiting
// for the transfer to release its ResponseWriter.
func (s *slot) withdrawSender(snd *sender) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != slotSenderWaiting || s.sender != snd {
		return false
	}
	s.sender = nil
	s.capacity = 0
	if len(s.receivers) == 0 {
		s.disposeLocked()
	} else {
		// The queued receivers keep waiting for a new sender, uncapped
		// again until one arrives.
		s.state = slotReceiversWaiting
	}
	return true
}

// withdrawReceiver removes a pending receiver whose peer disconnected, with
// the same false-once-transferring contract as withdrawSender.
func (s *slot) withdrawReceiver(rcv *receiver) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != slotReceiversWaiting && s.state != slotSenderWaiting {
		return false
	}
	idx := -1
	for i, r := range s.receivers {
		if r == rcv {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.receivers = append(s.receivers[:idx], s.receivers[idx+1:]...)
	telemetry.PendingReceivers.Dec()
	if len(s.receivers) == 0 && s.sender == nil {
		s.disposeLocked()
	}
	return true
}

// startTransferLocked transitions into TRANSFERRING and hands the parked
// handles to a transfer goroutine. Called with s.mu held.
func (s *slot) startTransferLocked() {
	s.state = slotTransferring
	telemetry.PendingReceivers.Sub(float64(len(s.receivers)))
	t := &transfer{
		id:        uuid.New().String()[:8],
		path:      s.key,
		slot:      s,
		sender:    s.sender,
		receivers: append([]*receiver(nil), s.receivers...),
	}
	log.Debugf("transfer %s: starting on '%s' with %d receiver(s)", t.id, t.path, len(t.receivers))
	go t.run()
}

// finish marks the slot DONE after its transfer ended, unmapping the path.
func (s *slot) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != slotDone {
		s.disposeLocked()
	}
}

// disposeLocked marks the slot DONE and removes it from the registry. Safe
// with s.mu held: the registry mutex is never held while a slot mutex is
// taken, so the lock order is one-directional.
func (s *slot) disposeLocked() {
	s.state = slotDone
	s.reg.remove(s.key, s)
}
