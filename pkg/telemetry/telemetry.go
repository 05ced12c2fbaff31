// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package telemetry defines the internal metrics of the piping server and the
// HTTP handler exposing them in prometheus format.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	// TransfersStarted counts transfers that reached the TRANSFERRING state.
	TransfersStarted = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "piping_server_transfers_started_total",
		Help: "Number of transfers started.",
	})

	// TransfersCompleted counts finished transfers by outcome.
	TransfersCompleted = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "piping_server_transfers_completed_total",
		Help: "Number of transfers finished, by outcome.",
	}, []string{"outcome"})

	// TransferBytes counts bytes read from senders, including bytes discarded
	// after every receiver of a transfer disconnected.
	TransferBytes = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "piping_server_transfer_bytes_total",
		Help: "Number of body bytes relayed from senders.",
	})

	// RequestsRejected counts 400-class rejections by reason.
	RequestsRejected = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "piping_server_requests_rejected_total",
		Help: "Number of rejected rendezvous requests, by reason.",
	}, []string{"reason"})

	// ActiveSlots tracks the number of live rendezvous slots.
	ActiveSlots = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Name: "piping_server_active_slots",
		Help: "Number of paths with a live rendezvous slot.",
	})

	// PendingReceivers tracks receivers parked waiting for a transfer.
	PendingReceivers = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Name: "piping_server_pending_receivers",
		Help: "Number of receivers waiting for their transfer to start.",
	})
)

// Rejection reasons.
const (
	ReasonReservedPath     = "reserved_path"
	ReasonBadMethod        = "bad_method"
	ReasonBadCapacity      = "bad_capacity"
	ReasonDuplicateSender  = "duplicate_sender"
	ReasonTooManyReceivers = "too_many_receivers"
)

// Handler returns the HTTP handler serving the metrics of this process.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
