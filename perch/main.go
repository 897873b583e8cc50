// Copyright 2026 The Perch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// perch is a UCI chess engine.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/perchfish/perch/internal/logging"
)

var (
	buildVersion = "(devel)"

	debug   = flag.Bool("debug", false, "enable debug logging")
	version = flag.Bool("version", false, "only print version and exit")
)

func main() {
	fmt.Printf("perch %v, built with %v, running on %v\n",
		buildVersion, runtime.Version(), runtime.GOARCH)

	flag.Parse()
	if *version {
		return
	}

	log := logging.GetLog()
	if *debug {
		logging.SetDebug()
	}

	bio := bufio.NewScanner(os.Stdin)
	uci := NewUCI()
	for bio.Scan() {
		if err := uci.Execute(bio.Text()); err != nil {
			if err == errQuit {
				break
			}
			log.Warningf("%v", err)
		}
	}
	os.Exit(0)
}
