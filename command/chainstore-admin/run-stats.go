// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/xiaoxianBoy/nearcore/storage"
)

// print statistics of both tiers
func runStats(c *cli.Context) error {
	m := storesOf(c)

	stats := m.split.Statistics()
	if nil == stats {
		fmt.Fprintf(c.App.Writer, "no statistics available\n")
		return nil
	}

	for _, entry := range stats.Data {
		fmt.Fprintf(c.App.Writer, "%s:", entry.Name)
		for _, value := range entry.Values {
			switch v := value.(type) {
			case storage.Count:
				fmt.Fprintf(c.App.Writer, " count=%d", int64(v))
			case storage.Sum:
				fmt.Fprintf(c.App.Writer, " sum=%d", int64(v))
			case storage.Percentile:
				fmt.Fprintf(c.App.Writer, " p%d=%f", v.Rank, v.Value)
			case storage.ColumnValue:
				fmt.Fprintf(c.App.Writer, " %s=%d", v.Column, v.Value)
			}
		}
		fmt.Fprintf(c.App.Writer, "\n")
	}
	return nil
}
