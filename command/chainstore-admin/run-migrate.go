// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/xiaoxianBoy/nearcore/fault"
	"github.com/xiaoxianBoy/nearcore/storage"
)

// copy cold eligible columns from the hot tier to the cold tier
//
// migration is idempotent so a failed run can simply be repeated
func runMigrate(c *cli.Context) error {
	m := storesOf(c)

	columns := []storage.Column(nil)
	if name := c.String("column"); "" != name {
		col, ok := storage.ColumnNamed(name)
		if !ok {
			return fault.ErrInvalidColumnName
		}
		columns = append(columns, col)
	} else {
		for _, col := range storage.AllColumns() {
			if col.IsCold() {
				columns = append(columns, col)
			}
		}
	}

	for _, col := range columns {
		copied, err := storage.MigrateColumnToCold(m.hot, m.cold, col)
		if nil != err {
			return err
		}
		fmt.Fprintf(c.App.Writer, "column: %s  copied: %d\n", col, copied)
	}

	return m.cold.Flush()
}
