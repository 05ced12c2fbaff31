// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryGetReturnsSameSlot(t *testing.T) {
	r := NewRegistry()

	s1 := r.get("/a")
	s2 := r.get("/a")
	s3 := r.get("/b")

	assert.Same(t, s1, s2)
	assert.NotSame(t, s1, s3)
}

func TestRegistryRemoveIsConditionalOnIdentity(t *testing.T) {
	r := NewRegistry()

	s1 := r.get("/a")
	r.remove("/a", s1)

	// A successor slot for the same path must survive the predecessor's
	// late removal.
	s2 := r.get("/a")
	assert.NotSame(t, s1, s2)
	r.remove("/a", s1)
	assert.Same(t, s2, r.get("/a"))

	r.remove("/a", s2)
	assert.NotSame(t, s2, r.get("/a"))
}
