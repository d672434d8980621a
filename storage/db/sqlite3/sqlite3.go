// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for package db. It must
// be imported (for its side effects) by any binary that opens a
// sqlite3 database.
package sqlite3

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mulark/visgression/storage/db"
)

func init() {
	db.RegisterOpenHook("sqlite3", enableForeignKeys)
}

// enableForeignKeys turns on foreign key enforcement, which sqlite
// leaves off by default.
func enableForeignKeys(db *sql.DB) error {
	_, err := db.Exec("PRAGMA foreign_keys = ON;")
	return err
}
