// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/xiaoxianBoy/nearcore/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "list", HasArg: getoptions.NO_ARGUMENT, Short: 'l'},
		{Long: "raw", HasArg: getoptions.NO_ARGUMENT, Short: 'r'},
		{Long: "stats", HasArg: getoptions.NO_ARGUMENT, Short: 's'},
		{Long: "file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'f'},
		{Long: "count", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["list"]) > 0 {
		fmt.Printf(" columns:\n")
		for _, col := range storage.AllColumns() {
			attributes := ""
			if col.IsRC() {
				attributes += " refcounted"
			}
			if col.IsInsertOnly() {
				attributes += " insert-only"
			}
			if col.IsCold() {
				attributes += " cold-eligible"
			}
			fmt.Printf("   %-14s%s\n", col.Name(), attributes)
		}
		return
	}

	if len(options["help"]) > 0 || 1 != len(options["file"]) {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--list] [--raw] [--stats] [--count=N] --file=FILE column [key-prefix]", program)
	}

	raw := len(options["raw"]) > 0
	verbose := len(options["verbose"]) > 0

	count := 10
	if len(options["count"]) > 0 {
		count, err = strconv.Atoi(options["count"][0])
		if nil != err {
			exitwithstatus.Message("%s: convert count error: %s", program, err)
		}
		if count < 1 {
			exitwithstatus.Message("%s: invalid count: %d", program, count)
		}
	}

	filename := options["file"][0]

	logging := logger.Configuration{
		Directory: ".",
		File:      "chainstore-dumpdb.log",
		Size:      1048576,
		Count:     10,
		Console:   true,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	if err = logger.Initialise(logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// read-only access
	store, err := storage.NewLevelDBStore(filename, storage.ReadOnly)
	if nil != err {
		exitwithstatus.Message("%s: storage setup failed with error: %s", program, err)
	}
	defer store.Close()

	if len(options["stats"]) > 0 {
		printStatistics(store)
		return
	}

	if 0 == len(arguments) {
		exitwithstatus.Message("%s: missing column name, use --list to show all columns", program)
	}

	col, ok := storage.ColumnNamed(arguments[0])
	if !ok {
		exitwithstatus.Message("%s: unknown column: %q", program, arguments[0])
	}

	prefix := []byte(nil)
	if len(arguments) > 1 {
		prefix, err = hex.DecodeString(arguments[1])
		if nil != err {
			exitwithstatus.Message("%s: convert prefix error: %s", program, err)
		}
	}

	if verbose {
		fmt.Printf("column: %s  from file: %q\n", col, filename)
	}

	var it storage.Iterator
	switch {
	case raw:
		// every physical entry, refcount suffixes attached
		it = store.IterRawBytes(col)
	case nil != prefix:
		it = store.IterPrefix(col, prefix)
	default:
		it = store.Iter(col)
	}
	defer it.Release()

	n := 0
	for it.Next() {
		key := it.Key()
		value := it.Value()
		if raw && nil != prefix && !bytes.HasPrefix(key, prefix) {
			continue
		}
		fmt.Printf("%d: Key: %x\n", n, key)
		fmt.Printf("%d: Val: %x\n", n, value)
		n += 1
		if n >= count {
			break
		}
	}
	if err := it.Error(); nil != err {
		exitwithstatus.Message("%s: iteration failed with error: %s", program, err)
	}
}

func printStatistics(store storage.Store) {
	stats := store.Statistics()
	if nil == stats {
		fmt.Printf("no statistics available\n")
		return
	}
	for _, entry := range stats.Data {
		fmt.Printf("%s:", entry.Name)
		for _, value := range entry.Values {
			switch v := value.(type) {
			case storage.Count:
				fmt.Printf(" count=%d", int64(v))
			case storage.Sum:
				fmt.Printf(" sum=%d", int64(v))
			case storage.Percentile:
				fmt.Printf(" p%d=%f", v.Rank, v.Value)
			case storage.ColumnValue:
				fmt.Printf(" %s=%d", v.Column, v.Value)
			}
		}
		fmt.Printf("\n")
	}
}
