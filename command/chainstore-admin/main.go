// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/xiaoxianBoy/nearcore/configuration"
	"github.com/xiaoxianBoy/nearcore/fault"
	"github.com/xiaoxianBoy/nearcore/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// opened stores shared by all commands
type metadata struct {
	config   *configuration.StoreConfiguration
	hot      *storage.LevelDBStore
	coldLeaf *storage.LevelDBStore
	cold     *storage.ColdStore
	split    *storage.SplitStore
}

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	m := metadata{}

	app := cli.NewApp()
	app.Name = "chainstore-admin"
	app.Usage = "maintenance operations on the hot/cold node store"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Value: "",
			Usage: "*storage configuration `FILE`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "migrate",
			Usage:     "copy cold eligible columns from the hot store to the cold store",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "column, l",
					Value: "",
					Usage: " only migrate `COLUMN` [default: all cold eligible columns]",
				},
			},
			Action: runMigrate,
		},
		{
			Name:   "compact",
			Usage:  "compact both tiers, blocking until finished",
			Action: runCompact,
		},
		{
			Name:   "stats",
			Usage:  "print store statistics of both tiers",
			Action: runStats,
		},
	}
	app.Metadata = map[string]interface{}{
		"metadata": &m,
	}

	app.Before = func(c *cli.Context) error {
		file := c.GlobalString("config")
		if "" == file {
			return fault.ErrRequiredConfigFile
		}

		config, err := configuration.GetConfiguration(file)
		if nil != err {
			return err
		}
		m.config = config

		if err := logger.Initialise(config.Logging); nil != err {
			return err
		}

		hot, err := storage.NewLevelDBStore(config.HotDatabase, config.ReadOnly)
		if nil != err {
			return err
		}
		coldLeaf, err := storage.NewLevelDBStore(config.ColdDatabase, config.ReadOnly)
		if nil != err {
			hot.Close()
			return err
		}

		m.hot = hot
		m.coldLeaf = coldLeaf
		m.cold = storage.NewColdStore(coldLeaf)
		m.split = storage.NewSplitStore(hot, m.cold, storage.DefaultTierPolicy())
		return nil
	}

	app.After = func(c *cli.Context) error {
		if nil != m.hot {
			m.hot.Close()
		}
		if nil != m.coldLeaf {
			m.coldLeaf.Close()
		}
		logger.Finalise()
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		exitwithstatus.Message("%s: error: %s", app.Name, err)
	}
}

func storesOf(c *cli.Context) *metadata {
	return c.App.Metadata["metadata"].(*metadata)
}
