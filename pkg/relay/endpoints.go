// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package relay

import (
	"fmt"
	"io"
	"net/http"

	"github.com/DataDog/piping-server/pkg/version"
)

// The reserved paths have fixed server-side semantics and can never be used
// as rendezvous paths.
func isReservedPath(path string) bool {
	switch path {
	case "", "/", "/version":
		return true
	}
	return false
}

const indexPage = `<html>
<head><title>Piping Server</title></head>
<body>
<h1>Piping Server</h1>
Streaming data transfer server over HTTP.
<h3>Usage</h3>
Send: <code>curl -T myfile http://localhost:8080/mypath</code><br>
Receive: <code>curl http://localhost:8080/mypath &gt; myfile</code><br>
Fan-out to three receivers: <code>curl -T myfile 'http://localhost:8080/mypath?n=3'</code>
</body>
</html>
`

func serveReserved(w http.ResponseWriter, path string) {
	switch path {
	case "", "/":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, indexPage)
	case "/version":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "%s\n", version.Version)
	}
}
