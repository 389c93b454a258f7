// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// error instances
//
// Provides a single instance of errors to allow easy comparison
package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrInvalidColumnName  = InvalidError("column name is invalid")
	ErrInvalidCount       = InvalidError("count is invalid")
	ErrNotColdColumn      = InvalidError("column is not cold eligible")
	ErrNotFoundConfigFile = NotFoundError("config file is not found")
	ErrRequiredConfigFile = InvalidError("config file is required")
	ErrRequiredDatabase   = InvalidError("database path is required")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
