// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiaoxianBoy/nearcore/configuration"
	"github.com/xiaoxianBoy/nearcore/fault"
)

const configFileContents = `
local M = {}

M.data_directory = arg[0]:match("(.*/)")

M.hot_database = "node-hot.leveldb"
M.cold_database = "/var/lib/chainstore/cold.leveldb"
M.read_only = true

M.logging = {
    size = 65535,
    count = 5,
    console = false,
    levels = {
        DEFAULT = "info",
    },
}

return M
`

func TestGetConfiguration(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "storage.conf")
	err := os.WriteFile(fileName, []byte(configFileContents), 0600)
	assert.NoError(t, err)

	config, err := configuration.GetConfiguration(fileName)
	assert.NoError(t, err)

	// relative paths resolve against the data directory
	assert.Equal(t, filepath.Join(dir, "node-hot.leveldb"), config.HotDatabase, "wrong hot database")

	// absolute paths pass through
	assert.Equal(t, "/var/lib/chainstore/cold.leveldb", config.ColdDatabase, "wrong cold database")

	assert.True(t, config.ReadOnly, "wrong read only flag")
	assert.Equal(t, 5, config.Logging.Count, "wrong log count")
	assert.Equal(t, "info", config.Logging.Levels["DEFAULT"], "wrong log level")
}

func TestGetConfigurationMissingFile(t *testing.T) {
	_, err := configuration.GetConfiguration(filepath.Join(t.TempDir(), "no-such.conf"))
	assert.Equal(t, fault.ErrNotFoundConfigFile, err, "wrong error")
}
