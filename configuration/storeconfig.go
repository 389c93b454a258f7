// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/xiaoxianBoy/nearcore/fault"
)

// basic defaults (directories and files are relative to the
// "DataDirectory" from the configuration file)
const (
	defaultHotDatabase  = "hot.leveldb"
	defaultColdDatabase = "cold.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "storage.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// StoreConfiguration - settings for the storage command tools
type StoreConfiguration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	HotDatabase   string               `gluamapper:"hot_database" json:"hot_database"`
	ColdDatabase  string               `gluamapper:"cold_database" json:"cold_database"`
	ReadOnly      bool                 `gluamapper:"read_only" json:"read_only"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// GetConfiguration - read, decode and verify a configuration file
func GetConfiguration(configurationFileName string) (*StoreConfiguration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}
	if _, err := os.Stat(configurationFileName); nil != err {
		return nil, fault.ErrNotFoundConfigFile
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &StoreConfiguration{
		DataDirectory: dataDirectory,
		HotDatabase:   defaultHotDatabase,
		ColdDatabase:  defaultColdDatabase,

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	// resolve paths relative to the data directory
	options.HotDatabase = resolvePath(options.DataDirectory, options.HotDatabase)
	options.ColdDatabase = resolvePath(options.DataDirectory, options.ColdDatabase)
	options.Logging.Directory = resolvePath(options.DataDirectory, options.Logging.Directory)

	return options, nil
}

func resolvePath(dataDirectory string, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(dataDirectory, name)
}
