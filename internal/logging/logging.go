// Copyright 2026 The Perch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging configures the shared go-logging backend. Records
// go to stdout prefixed with "info string" so diagnostic output stays
// legal in the middle of a UCI session.

package logging

import (
	"os"
	"sync"

	logging "github.com/op/go-logging"
)

var (
	once sync.Once
	log  *logging.Logger
)

var format = logging.MustStringFormatter(
	`info string %{module} %{level:.4s} %{message}`,
)

// GetLog returns the process-wide logger, initializing the backend on
// first use.
func GetLog() *logging.Logger {
	once.Do(func() {
		backend := logging.NewLogBackend(os.Stdout, "", 0)
		formatted := logging.NewBackendFormatter(backend, format)
		leveled := logging.AddModuleLevel(formatted)
		leveled.SetLevel(logging.INFO, "")
		logging.SetBackend(leveled)
		log = logging.MustGetLogger("perch")
	})
	return log
}

// SetDebug raises the log level to DEBUG for all modules.
func SetDebug() {
	logging.SetLevel(logging.DEBUG, "")
}
