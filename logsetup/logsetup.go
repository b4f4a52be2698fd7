// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package logsetup installs the go-logging backend shared by the huffpack commands.
*/
package logsetup

import (
	"io"

	"github.com/op/go-logging"
)

const formatSpec = "%{level:8s} %{module:-20s} | %{message}"

// LogModules names every logger in huffpack.
var LogModules = []string{
	"huffpack/huffman",
	"huffpack/service",
	"huffpack/server",
	"huffpack/store",
	"hufftool",
}

// Start directs all logging to w with each line prefixed by prefix, at level INFO for every module.  The
// returned backend can be used to change levels later.
func Start(w io.Writer, prefix string) logging.LeveledBackend {
	backend := logging.NewLogBackend(w, prefix, 0)
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	return leveled
}

// SetLevel sets level on backend for the default module and every huffpack module.
func SetLevel(backend logging.Leveled, level logging.Level) {
	backend.SetLevel(level, "")
	for _, module := range LogModules {
		backend.SetLevel(level, module)
	}
}
