// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../../LICENSE.md.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"

	"github.com/blanu/huffpack/logsetup"
)

const progName = "hufftool"
const usageMessageRaw = `
Usage: hufftool [-d] SUBCOMMAND...

Options:
  -d, -debug
	Log at DEBUG level.

Subcommands:
  compress [-o OUT] IN
	Compress the file IN and write the serialized payload to OUT, which
	must not already exist.  OUT defaults to IN.huf.

  decompress [-o OUT] IN
	Read a serialized payload from IN and write the original content to
	OUT, or to standard output if OUT is not given.

  stats FILE...
	Compress each FILE and report how well it compresses.

  tree FILE
	Show the frequency table, code table, and tree for the content of FILE.

  demo
	Compress and decompress "hello" and report the result.

  config -o FILE [KEY=VALUE...]
	Write a new server configuration file FILE with the given settings,
	and show the settings that differ from the defaults.

  serve [-c CONFIG] [KEY=VALUE...]
	Run the HTTP server.  Settings are read from CONFIG if given, then
	overridden by any KEY=VALUE arguments.
`

var log = logging.MustGetLogger("hufftool")

type nullWriter struct{}

func (n *nullWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

var ourFlags *flag.FlagSet

func usageMessage() string {
	return strings.TrimLeft(usageMessageRaw, "\n")
}

func usageErrorf(detailFmt string, detailArgs ...interface{}) {
	detail := fmt.Sprintf(detailFmt, detailArgs...)
	fmt.Fprintf(os.Stderr, "%s: %s\n%s", progName, detail, usageMessage())
	os.Exit(64)
}

func exitError(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", progName, err.Error())
	os.Exit(1)
}

var argI int = 0

func nextArg(expected string) string {
	if !(argI < ourFlags.NArg()) {
		usageErrorf("not enough arguments; expected %s", expected)
	}
	arg := ourFlags.Arg(argI)
	argI++
	return arg
}

func remainingArgs() []string {
	slice := ourFlags.Args()[argI:]
	argI = ourFlags.NArg()
	return slice
}

func endOfArgs() {
	if argI < ourFlags.NArg() {
		usageErrorf("too many arguments at %d (\"%s\")", argI, ourFlags.Arg(argI))
	}
}

func parseFlags(flags *flag.FlagSet, args []string) {
	flags.Usage = func() {}
	flags.SetOutput(&nullWriter{})

	argErr := flags.Parse(args)
	if argErr == flag.ErrHelp {
		io.WriteString(os.Stdout, usageMessage())
		os.Exit(0)
	} else if argErr != nil {
		usageErrorf("%s", argErr.Error())
	}
}

// subcommandFlags parses the rest of the arguments with a new flag set, which becomes the source for
// nextArg and friends.
func subcommandFlags(define func(*flag.FlagSet)) {
	subFlags := flag.NewFlagSet(progName, flag.ContinueOnError)
	if define != nil {
		define(subFlags)
	}
	parseFlags(subFlags, remainingArgs())
	ourFlags = subFlags
	argI = 0
}

var leveledLogBackend logging.LeveledBackend

func main() {
	leveledLogBackend = logsetup.Start(os.Stderr, progName+": ")

	var debugLogging bool
	ourFlags = flag.NewFlagSet(progName, flag.ContinueOnError)
	ourFlags.BoolVar(&debugLogging, "debug", false, "")
	ourFlags.BoolVar(&debugLogging, "d", false, "")
	parseFlags(ourFlags, os.Args[1:])

	if debugLogging {
		logsetup.SetLevel(leveledLogBackend, logging.DEBUG)
	}

	var requestedCommand func() error
	subcommandArg := nextArg("SUBCOMMAND")
	switch subcommandArg {
	default:
		usageErrorf("unrecognized subcommand \"%s\"", subcommandArg)
	case "compress":
		requestedCommand = compressFromArgs()
	case "decompress":
		requestedCommand = decompressFromArgs()
	case "stats":
		requestedCommand = statsFromArgs()
	case "tree":
		requestedCommand = treeFromArgs()
	case "demo":
		requestedCommand = demoFromArgs()
	case "config":
		requestedCommand = configFromArgs()
	case "serve":
		requestedCommand = serveFromArgs(debugLogging)
	}

	if err := requestedCommand(); err != nil {
		exitError(err)
	}
}
