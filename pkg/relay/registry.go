// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package relay

import (
	"sync"

	"github.com/DataDog/piping-server/pkg/telemetry"
)

// Registry is the process-wide mapping from rendezvous path to its slot.
// Lookup-or-create and removal are serialised under a single mutex; the
// registry never holds that mutex while a slot does its own work.
type Registry struct {
	mu    sync.Mutex
	slots map[string]*slot
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[string]*slot)}
}

// get returns the live slot for path, creating one if none exists.
func (r *Registry) get(path string) *slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[path]; ok {
		return s
	}
	s := &slot{key: path, reg: r}
	r.slots[path] = s
	telemetry.ActiveSlots.Inc()
	return s
}

// remove drops the mapping for path, but only while it still points at s.
// A finished slot must not evict a successor created for the same path.
func (r *Registry) remove(path string, s *slot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.slots[path]; ok && cur == s {
		delete(r.slots, path)
		telemetry.ActiveSlots.Dec()
	}
}

// admitSender registers snd on the slot for path with capacity n.
// It retries when it loses the race against a slot that finished between
// lookup and registration.
func (r *Registry) admitSender(path string, snd *sender, n int) registerOutcome {
	for {
		s := r.get(path)
		out, err := s.registerSender(snd, n)
		if err == nil {
			return out
		}
	}
}

// admitReceiver registers rcv on the slot for path, retrying on the same
// race as admitSender.
func (r *Registry) admitReceiver(path string, rcv *receiver) registerOutcome {
	for {
		s := r.get(path)
		out, err := s.registerReceiver(rcv)
		if err == nil {
			return out
		}
	}
}
