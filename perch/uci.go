// Copyright 2026 The Perch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// uci.go implements the UCI protocol described at
// http://wbec-ridderkerk.nl/html/UCIProtocol.html.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	. "github.com/perchfish/perch/board"
	. "github.com/perchfish/perch/engine"
)

var errQuit = errors.New("quit")

// uciLogger outputs search progress in UCI format.
type uciLogger struct {
	start time.Time
	buf   *bytes.Buffer
}

func newUCILogger() *uciLogger {
	return &uciLogger{buf: &bytes.Buffer{}}
}

func (ul *uciLogger) BeginSearch() {
	ul.start = time.Now()
	ul.buf.Reset()
}

func (ul *uciLogger) EndSearch() {
	ul.flush()
}

func (ul *uciLogger) PrintPV(stats Stats, score int32, move Move) {
	fmt.Fprintf(ul.buf, "info depth %d ", stats.Depth)

	if score > KnownWinScore {
		fmt.Fprintf(ul.buf, "score mate %d ", (MateScore-score+1)/2)
	} else if score < -KnownWinScore {
		fmt.Fprintf(ul.buf, "score mate -%d ", (MateScore+score+1)/2)
	} else {
		fmt.Fprintf(ul.buf, "score cp %d ", score)
	}

	elapsed := time.Since(ul.start)
	if elapsed < time.Microsecond {
		elapsed = time.Microsecond
	}
	nps := uint64(float64(stats.Nodes) / elapsed.Seconds())
	millis := uint64(elapsed / time.Millisecond)
	fmt.Fprintf(ul.buf, "nodes %d time %d nps %d pv %v\n",
		stats.Nodes, millis, nps, move.UCI())

	ul.flush()
}

// flush flushes the buf to stdout.
func (ul *uciLogger) flush() {
	os.Stdout.Write(ul.buf.Bytes())
	ul.buf.Reset()
}

// UCI implements the uci protocol.
type UCI struct {
	Engine      *Engine
	timeControl *TimeControl

	// buffer of 1, if empty then the engine is searching
	idle chan struct{}
}

func NewUCI() *UCI {
	uci := &UCI{
		Engine: NewEngine(nil, newUCILogger()),
		idle:   make(chan struct{}, 1),
	}
	uci.idle <- struct{}{}
	return uci
}

var reCmd = regexp.MustCompile(`^[[:word:]]+\b`)

// Execute handles one command line. Unknown commands and malformed
// arguments are ignored; the engine never terminates on bad input.
func (uci *UCI) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	cmd := reCmd.FindString(line)
	if cmd == "" {
		return nil
	}

	// These commands do not expect the engine to be idle.
	switch cmd {
	case "isready":
		return uci.isready(line)
	case "quit":
		return errQuit
	case "stop":
		return uci.stop(line)
	case "uci":
		return uci.uci(line)
	}

	// Make sure the engine is idle.
	<-uci.idle
	uci.idle <- struct{}{}

	switch cmd {
	case "ucinewgame":
		return uci.ucinewgame(line)
	case "position":
		return uci.position(line)
	case "go":
		return uci.go_(line)
	case "setoption":
		return uci.setoption(line)
	}
	return nil
}

func (uci *UCI) uci(line string) error {
	fmt.Printf("id name perch %v\n", buildVersion)
	fmt.Printf("id author The Perch Authors\n")
	fmt.Printf("\n")
	fmt.Printf("option name Hash type spin default %v min 1 max 1024\n", DefaultHashTableSizeMB)
	fmt.Printf("option name Contempt type spin default 0 min -200 max 200\n")
	fmt.Println("uciok")
	return nil
}

func (uci *UCI) isready(line string) error {
	fmt.Println("readyok")
	return nil
}

func (uci *UCI) ucinewgame(line string) error {
	uci.Engine.SetPosition(nil)
	uci.Engine.NewGame()
	return nil
}

func (uci *UCI) position(line string) error {
	args := strings.Fields(line)[1:]
	if len(args) == 0 {
		return nil
	}

	var pos *Position
	i := 0
	switch args[i] {
	case "startpos":
		pos = PositionFromFEN(FENStartPos)
		i++
	case "fen":
		for i++; i < len(args) && args[i] != "moves"; i++ {
		}
		pos = PositionFromFEN(strings.Join(args[1:i], " "))
	default:
		return nil
	}
	uci.Engine.SetPosition(pos)

	if i < len(args) && args[i] == "moves" {
		for _, s := range args[i+1:] {
			move, err := uci.Engine.Position.UCIToMove(s)
			if err != nil {
				// Illegal moves supplied by the GUI are dropped.
				break
			}
			uci.Engine.DoMove(move)
		}
	}
	return nil
}

func (uci *UCI) go_(line string) error {
	uci.timeControl = NewTimeControl(uci.Engine.Position)

	// The trailing empty argument makes a keyword missing its value
	// fail to parse instead of reading past the end.
	args := append(strings.Fields(line)[1:], "")
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			i++
			if d, err := strconv.Atoi(args[i]); err == nil {
				uci.timeControl.Depth = int32(d)
			}
		case "wtime":
			i++
			if t, err := strconv.Atoi(args[i]); err == nil {
				uci.timeControl.WTime = time.Duration(t) * time.Millisecond
			}
		case "btime":
			i++
			if t, err := strconv.Atoi(args[i]); err == nil {
				uci.timeControl.BTime = time.Duration(t) * time.Millisecond
			}
		case "winc":
			i++
			if t, err := strconv.Atoi(args[i]); err == nil {
				uci.timeControl.WInc = time.Duration(t) * time.Millisecond
			}
		case "binc":
			i++
			if t, err := strconv.Atoi(args[i]); err == nil {
				uci.timeControl.BInc = time.Duration(t) * time.Millisecond
			}
		case "movetime":
			i++
			if t, err := strconv.Atoi(args[i]); err == nil {
				uci.timeControl.MoveTime = time.Duration(t) * time.Millisecond
			}
		case "infinite":
			uci.timeControl = NewTimeControl(uci.Engine.Position)
		}
	}

	uci.timeControl.Start()
	<-uci.idle
	go uci.play()
	return nil
}

func (uci *UCI) stop(line string) error {
	if uci.timeControl != nil {
		uci.timeControl.Stop()
	}
	// Wait until the engine becomes idle.
	<-uci.idle
	uci.idle <- struct{}{}
	return nil
}

// play runs the search. Should run in its own goroutine.
func (uci *UCI) play() {
	move := uci.Engine.Play(uci.timeControl)

	if move == NullMove {
		fmt.Printf("bestmove 0000\n")
	} else {
		fmt.Printf("bestmove %v\n", move.UCI())
	}

	// Mark the engine as idle after bestmove is printed so info and
	// bestmove lines never interleave.
	uci.idle <- struct{}{}
}

var reOption = regexp.MustCompile(`^setoption\s+name\s+(.+?)(\s+value\s+(.*))?$`)

func (uci *UCI) setoption(line string) error {
	option := reOption.FindStringSubmatch(line)
	if option == nil {
		return nil
	}

	switch option[1] {
	case "Hash":
		if hashSizeMB, err := strconv.Atoi(option[3]); err == nil {
			if hashSizeMB < 1 {
				hashSizeMB = 1
			}
			if hashSizeMB > 1024 {
				hashSizeMB = 1024
			}
			GlobalHashTable = NewHashTable(hashSizeMB)
		}
	case "Contempt":
		if contempt, err := strconv.Atoi(option[3]); err == nil {
			Contempt = int32(contempt)
		}
	}
	// Other options are tolerated and ignored.
	return nil
}
