// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../../LICENSE.md.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"

	"github.com/blanu/huffpack/config"
	"github.com/blanu/huffpack/huffman"
	"github.com/blanu/huffpack/logsetup"
	"github.com/blanu/huffpack/payload"
	"github.com/blanu/huffpack/server"
	"github.com/blanu/huffpack/service"
	"github.com/blanu/huffpack/stats"
	"github.com/blanu/huffpack/store"
)

const payloadSuffix = ".huf"

// createExclusive creates a new file at path, failing if one already exists.
func createExclusive(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
}

func compressFile(inPath, outPath string) (err error) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	p := huffman.Compress(data)

	file, err := createExclusive(outPath)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := file.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(outPath)
		}
	}()

	if err = payload.Write(file, p); err != nil {
		return err
	}

	log.Infof("compressed %s to %s: %d octets, %d valid bits", inPath, outPath, len(data), p.BitLength)
	return nil
}

func compressFromArgs() func() error {
	var outPath string
	subcommandFlags(func(flags *flag.FlagSet) {
		flags.StringVar(&outPath, "o", "", "")
	})
	inPath := nextArg("IN")
	endOfArgs()

	if outPath == "" {
		outPath = inPath + payloadSuffix
	}

	return func() error {
		return compressFile(inPath, outPath)
	}
}

// decompressFile reads the serialized payload at inPath and writes the original content to w.
func decompressFile(inPath string, w io.Writer) error {
	file, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer file.Close()

	p, err := payload.Read(bufio.NewReader(file))
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	data, err := huffman.Decompress(p)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	_, err = w.Write(data)
	return err
}

func decompressFromArgs() func() error {
	var outPath string
	subcommandFlags(func(flags *flag.FlagSet) {
		flags.StringVar(&outPath, "o", "", "")
	})
	inPath := nextArg("IN")
	endOfArgs()

	return func() (err error) {
		if outPath == "" {
			return decompressFile(inPath, os.Stdout)
		}

		file, err := createExclusive(outPath)
		if err != nil {
			return err
		}
		defer func() {
			closeErr := file.Close()
			if err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(outPath)
			}
		}()

		return decompressFile(inPath, file)
	}
}

// statsFiles measures the compression of every file in paths concurrently and reports on them to w in the
// order given.
func statsFiles(w io.Writer, paths []string) error {
	results := make([]stats.Stats, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			results[i] = stats.Measure(data, huffman.Compress(data))
			log.Debugf("measured %s", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range paths {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "==> %s <==\n", path)
		if err := results[i].Format(w); err != nil {
			return err
		}
	}
	return nil
}

func statsFromArgs() func() error {
	subcommandFlags(nil)
	paths := remainingArgs()
	if len(paths) == 0 {
		usageErrorf("not enough arguments; expected FILE")
	}

	return func() error {
		return statsFiles(os.Stdout, paths)
	}
}

// showTree writes the diagnostic views of the code built for data.
func showTree(w io.Writer, data []byte) error {
	ft := huffman.CountFrequencies(data)
	tree := huffman.BuildTree(ft)
	if tree == nil {
		_, err := fmt.Fprintln(w, "empty input; no tree")
		return err
	}

	codes := huffman.NewCodeTable(tree)
	_, err := fmt.Fprintf(w, "%v\n%v\nTREE %d nodes, %d leaves, weight %d, %d encoded bits\n%v",
		ft, codes, tree.Len(), tree.Leaves(), tree.Weight(), codes.EncodedLength(ft), tree)
	return err
}

func treeFromArgs() func() error {
	subcommandFlags(nil)
	path := nextArg("FILE")
	endOfArgs()

	return func() error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return showTree(os.Stdout, data)
	}
}

const demoInput = "hello"

func demo(w io.Writer) error {
	input := []byte(demoInput)
	p := huffman.Compress(input)

	if err := stats.Measure(input, p).Format(w); err != nil {
		return err
	}

	decompressed, err := huffman.Decompress(p)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\nOriginal text: %s\nDecompressed: %s\n", input, decompressed)
	return err
}

func demoFromArgs() func() error {
	subcommandFlags(nil)
	endOfArgs()

	return func() error {
		return demo(os.Stdout)
	}
}

// paramArgs collects the remaining KEY=VALUE arguments.
func paramArgs() map[string]string {
	unparsed := make(map[string]string)
	for _, arg := range remainingArgs() {
		equals := strings.IndexRune(arg, '=')
		if equals < 0 {
			usageErrorf("server parameter must be of the form KEY=VALUE")
		}

		key, val := arg[:equals], arg[equals+1:]
		unparsed[key] = val
	}
	return unparsed
}

func formatParams(p map[string]string) string {
	parts := []string{}
	for key, val := range p {
		parts = append(parts, key+"="+val)
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

// writeConfigFile saves the server settings given by params to a new file at path and echoes the settings
// that differ from the defaults to w.
func writeConfigFile(w io.Writer, path string, params map[string]string) error {
	cfg, err := config.Parse(params)
	if err != nil {
		return err
	}

	if err := cfg.SaveFile(path); err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s: %s\n", path, formatParams(cfg.Unparse()))
	return err
}

func configFromArgs() func() error {
	var outPath string
	subcommandFlags(func(flags *flag.FlagSet) {
		flags.StringVar(&outPath, "o", "", "")
	})
	params := paramArgs()

	if outPath == "" {
		usageErrorf("output file must be specified")
	}

	return func() error {
		return writeConfigFile(os.Stdout, outPath, params)
	}
}

func serve(cfg *config.Config) error {
	ctx := context.Background()
	st, err := store.Open(ctx, *cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	engine := server.New(*cfg, service.NewCompressionService(st))
	log.Noticef("listening on %s", cfg.Listen)
	return engine.Run(cfg.Listen)
}

func serveFromArgs(debugLogging bool) func() error {
	var configPath string
	subcommandFlags(func(flags *flag.FlagSet) {
		flags.StringVar(&configPath, "c", "", "")
	})

	overrides := paramArgs()

	return func() error {
		cfg, err := config.LoadFile(configPath, overrides)
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if debugLogging {
			level = logging.DEBUG
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
		logsetup.SetLevel(leveledLogBackend, level)
		return serve(cfg)
	}
}
