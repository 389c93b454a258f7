// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"
)

// compact both tiers, blocking until finished
func runCompact(c *cli.Context) error {
	m := storesOf(c)

	fmt.Fprintf(c.App.Writer, "compacting, this can take a while...\n")
	if err := m.split.Compact(); nil != err {
		return err
	}
	fmt.Fprintf(c.App.Writer, "done\n")
	return nil
}
