// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/DataDog/piping-server/pkg/util/log"
)

const logFormat = "%s: %s %s from %s, processed in %s, status code: %d"

type logFunc func(format string, params ...interface{})

func logFuncForStatus(status int) logFunc {
	switch {
	case status >= 500:
		return log.Errorf
	case status >= 400:
		return log.Warnf
	default:
		return log.Infof
	}
}

// statusRecorder remembers the committed status code. It forwards Flush and
// unwraps to the underlying writer (for http.ResponseController) so the
// streaming relay behind it keeps working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// LogResponseHandler logs one line per request once its response has been
// committed, at a level picked from the status code.
func LogResponseHandler(serverName string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			defer func() {
				duration := time.Since(start)
				status := rec.status
				if status == 0 {
					status = http.StatusOK
				}
				logFuncForStatus(status)(logFormat, serverName, r.Method, r.URL.Path, r.RemoteAddr, duration, status)
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
