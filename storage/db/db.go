// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db provides the high-level interface to the regression-test
// sample database produced by factorio-benchmark-helper.
package db

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"golang.org/x/net/context"

	"github.com/mulark/visgression/fversion"
	"github.com/mulark/visgression/regression"
)

// ErrNoDatabase reports that the regression-test database does not
// exist. Aggregation over an absent store is meaningless, so callers
// abort rather than degrade.
var ErrNoDatabase = errors.New("regression test database not found")

// DB is a high-level interface to the regression-test database. It's
// safe for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertScenario *sql.Stmt
	insertInstance *sql.Stmt
	insertVerbose  *sql.Stmt
}

// Open opens the sqlite database at path. A missing file is an
// ErrNoDatabase failure, not an invitation to create an empty store:
// factorio-benchmark-helper owns ingestion.
func Open(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w at %s; run factorio-benchmark-helper with --regression-test", ErrNoDatabase, path)
	}
	return OpenSQL("sqlite3", path)
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(driverName); err != nil {
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
//
// The schema matches the one factorio-benchmark-helper writes: one
// scenario per benchmark map, one instance per (scenario, version)
// test, and one verbose row of per-tick nanosecond timings per run.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS regression_scenario (
	ID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	map_name VARCHAR(255),
	sha256 VARCHAR(64)
);
CREATE TABLE IF NOT EXISTS regression_test_instance (
	ID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	scenario_ID BIGINT UNSIGNED,
	factorio_version VARCHAR(32),
	FOREIGN KEY (scenario_ID) REFERENCES regression_scenario(ID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS verbose (
	instance_ID BIGINT UNSIGNED,
	wholeUpdate DOUBLE,
	circuitNetworkUpdate DOUBLE,
	transportLinesUpdate DOUBLE,
	fluidsUpdate DOUBLE,
	entityUpdate DOUBLE,
	electricNetworkUpdate DOUBLE,
	logisticManagerUpdate DOUBLE,
	trains DOUBLE,
	trainPathFinder DOUBLE,
	FOREIGN KEY (instance_ID) REFERENCES regression_test_instance(ID) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements(driverName string) error {
	var err error
	db.insertScenario, err = db.sql.Prepare("INSERT INTO regression_scenario(map_name, sha256) VALUES (?, ?)")
	if err != nil {
		return err
	}
	db.insertInstance, err = db.sql.Prepare("INSERT INTO regression_test_instance(scenario_ID, factorio_version) VALUES (?, ?)")
	if err != nil {
		return err
	}
	db.insertVerbose, err = db.sql.Prepare(
		"INSERT INTO verbose(instance_ID, wholeUpdate, circuitNetworkUpdate, transportLinesUpdate, fluidsUpdate, entityUpdate, electricNetworkUpdate, logisticManagerUpdate, trains, trainPathFinder) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// AddScenario records a benchmark map and returns its scenario ID.
func (db *DB) AddScenario(ctx context.Context, name, sha256 string) (int64, error) {
	res, err := db.insertScenario.ExecContext(ctx, name, sha256)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AddRun records one benchmark run of scenario at version. Metrics are
// taken in milliseconds per tick and stored as nanoseconds, matching
// the ingestion side.
func (db *DB) AddRun(ctx context.Context, scenarioID int64, version fversion.Version, m regression.Metrics) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	res, err := tx.StmtContext(ctx, db.insertInstance).ExecContext(ctx, scenarioID, version.String())
	if err != nil {
		return err
	}
	instanceID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	const ns = 1e6 // milliseconds to nanoseconds
	_, err = tx.StmtContext(ctx, db.insertVerbose).ExecContext(ctx, instanceID,
		m.WholeUpdate*ns, m.CircuitNetworkUpdate*ns, m.TransportLinesUpdate*ns,
		m.FluidsUpdate*ns, m.EntityUpdate*ns, m.ElectricNetworkUpdate*ns,
		m.LogisticManagerUpdate*ns, m.Trains*ns, m.TrainPathFinder*ns)
	return err
}

// samplesQuery averages every run of each (scenario, version) instance
// and scales nanoseconds to milliseconds. Ordering by scenario then
// version matches the ingestion tool's query.
const samplesQuery = `select factorio_version,
avg(wholeUpdate)/1000000.0,
avg(circuitNetworkUpdate)/1000000.0,
avg(transportLinesUpdate)/1000000.0,
avg(fluidsUpdate)/1000000.0,
avg(entityUpdate)/1000000.0,
avg(electricNetworkUpdate)/1000000.0,
avg(logisticManagerUpdate)/1000000.0,
avg(trains)/1000000.0,
avg(trainPathFinder)/1000000.0,
sha256,
map_name
from verbose join regression_test_instance
on verbose.instance_ID = regression_test_instance.ID
join regression_scenario
on regression_scenario.ID = regression_test_instance.scenario_ID
group by regression_test_instance.ID
order by scenario_ID, factorio_version`

// Samples returns every recorded sample, averaged per (map, version)
// instance. A version string that fails to parse aborts the query;
// corrupt identifiers must never feed the aggregation.
func (db *DB) Samples(ctx context.Context) ([]regression.Row, error) {
	rows, err := db.sql.QueryContext(ctx, samplesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []regression.Row
	for rows.Next() {
		var (
			vs string
			m  regression.Metrics
			r  regression.Row
		)
		if err := rows.Scan(&vs,
			&m.WholeUpdate, &m.CircuitNetworkUpdate, &m.TransportLinesUpdate,
			&m.FluidsUpdate, &m.EntityUpdate, &m.ElectricNetworkUpdate,
			&m.LogisticManagerUpdate, &m.Trains, &m.TrainPathFinder,
			&r.Map.SHA256, &r.Map.Name); err != nil {
			return nil, err
		}
		v, err := fversion.Parse(vs)
		if err != nil {
			return nil, err
		}
		r.Version = v
		r.Metrics = m
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountScenarios returns the number of recorded benchmark maps.
func (db *DB) CountScenarios() (int, error) {
	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM regression_scenario").Scan(&count)
	return count, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertScenario.Close(); err != nil {
		return err
	}
	if err := db.insertInstance.Close(); err != nil {
		return err
	}
	if err := db.insertVerbose.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
