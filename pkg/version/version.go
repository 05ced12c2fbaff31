// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package version holds the build version of the piping server.
package version

// Version is the version of the running binary. It is set at build time with
// -ldflags "-X github.com/DataDog/piping-server/pkg/version.Version=x.y.z".
var Version = "0.9.0"

// Commit is the git commit the binary was built from.
var Commit = ""
