// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - read Lua configuration files for the
// storage command tools
//
// a configuration file is an executed Lua script whose last expression
// is a table; this allows simple computed configuration while keeping
// the result a plain data structure
package configuration
