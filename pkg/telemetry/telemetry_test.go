// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesMetrics(t *testing.T) {
	TransfersStarted.Inc()
	TransfersCompleted.WithLabelValues("completed").Inc()
	TransferBytes.Add(17)
	RequestsRejected.WithLabelValues(ReasonBadCapacity).Inc()
	ActiveSlots.Set(2)
	PendingReceivers.Set(1)

	req := httptest.NewRequest(http.MethodGet, "/telemetry", nil)
	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Result().Body)
	require.NoError(t, err)

	for _, metric := range []string{
		"piping_server_transfers_started_total",
		`piping_server_transfers_completed_total{outcome="completed"}`,
		"piping_server_transfer_bytes_total",
		`piping_server_requests_rejected_total{reason="bad_capacity"}`,
		"piping_server_active_slots 2",
		"piping_server_pending_receivers 1",
	} {
		assert.Contains(t, string(body), metric)
	}
}
