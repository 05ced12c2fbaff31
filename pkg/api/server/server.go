// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package server owns the HTTP serving surface of the piping server: the
// listener for the relay itself and, when configured, a second listener
// exposing process telemetry.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/atomic"

	"github.com/DataDog/piping-server/pkg/telemetry"
	"github.com/DataDog/piping-server/pkg/util/log"
)

// Server serves the relay handler and the optional telemetry endpoint.
type Server struct {
	addr          string
	telemetryAddr string

	srv          *http.Server
	telemetrySrv *http.Server

	listener          net.Listener
	telemetryListener net.Listener

	started atomic.Bool
}

// NewServer builds the serving surface around the relay handler.
// telemetryAddr may be empty to disable the telemetry listener.
func NewServer(addr, telemetryAddr string, relayHandler http.Handler) *Server {
	router := mux.NewRouter()
	router.Use(LogResponseHandler("piping-server"))
	router.PathPrefix("/").Handler(relayHandler)

	s := &Server{
		addr:          addr,
		telemetryAddr: telemetryAddr,
		// No read or write timeouts: a rendezvous may legitimately stay
		// half-open until the peer gives up.
		srv: &http.Server{Handler: router},
	}
	if telemetryAddr != "" {
		telemetryRouter := mux.NewRouter()
		telemetryRouter.Handle("/telemetry", telemetry.Handler()).Methods(http.MethodGet)
		s.telemetrySrv = &http.Server{Handler: telemetryRouter}
	}
	return s
}

// Start binds the listeners and begins serving. It returns once the
// listeners are bound; serving continues in the background.
func (s *Server) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("server already started")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", s.addr, err)
	}
	s.listener = listener
	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("relay server stopped: %v", err)
		}
	}()
	log.Infof("relay server listening on %s", listener.Addr())

	if s.telemetrySrv != nil {
		telemetryListener, err := net.Listen("tcp", s.telemetryAddr)
		if err != nil {
			s.srv.Close() //nolint:errcheck
			return fmt.Errorf("unable to listen on %s: %w", s.telemetryAddr, err)
		}
		s.telemetryListener = telemetryListener
		go func() {
			if err := s.telemetrySrv.Serve(telemetryListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("telemetry server stopped: %v", err)
			}
		}()
		log.Infof("telemetry server listening on %s", telemetryListener.Addr())
	}
	return nil
}

// Addr returns the bound address of the relay listener.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts the servers down, waiting for in-flight requests until ctx
// expires, then tearing the remaining connections down.
func (s *Server) Stop(ctx context.Context) error {
	if s.telemetrySrv != nil {
		s.telemetrySrv.Shutdown(ctx) //nolint:errcheck
	}
	err := s.srv.Shutdown(ctx)
	if err != nil {
		// Rendezvous waiters hold their connections open; close them out.
		s.srv.Close() //nolint:errcheck
	}
	return err
}
