package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"gopkg.in/guregu/null.v3"
	_ "modernc.org/sqlite" // SQLite driver
)

// Table names for run history.
const (
	runsTable      = "trendbox_runs"
	runPointsTable = "trendbox_run_points"
)

// RunStoreImpl implements the HistoryStore interface.
type RunStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new HistoryStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return &RunStoreImpl{backend: backend}, nil
	}

	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. The DSN needs parseTime=true."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &RunStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// openDB opens a connection pool for backend without verifying it.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// One connection avoids "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, "sqlite", nil

	case schema.MySQLBackend:
		db, err := sql.Open("mysql", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname?parseTime=true", err)
		}
		return db, "mysql", nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=... password=...", err)
		}
		return db, "pgx", nil

	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// createRunTables creates the run history tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{runPointsTable, getCreateRunPointsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for trendbox_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				variant VARCHAR(32) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				rows_read INT NOT NULL DEFAULT 0,
				points_parsed INT NOT NULL DEFAULT 0,
				diagnostics INT NOT NULL DEFAULT 0,
				status VARCHAR(32) NOT NULL DEFAULT '',
				last_value DOUBLE,
				week_over_week DOUBLE,
				year_over_year DOUBLE,
				month_to_date DOUBLE,
				quarter_to_date DOUBLE,
				year_to_date DOUBLE,
				config_params TEXT
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				variant TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				rows_read INT NOT NULL DEFAULT 0,
				points_parsed INT NOT NULL DEFAULT 0,
				diagnostics INT NOT NULL DEFAULT 0,
				status TEXT NOT NULL DEFAULT '',
				last_value DOUBLE PRECISION,
				week_over_week DOUBLE PRECISION,
				year_over_year DOUBLE PRECISION,
				month_to_date DOUBLE PRECISION,
				quarter_to_date DOUBLE PRECISION,
				year_to_date DOUBLE PRECISION,
				config_params TEXT
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				variant TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				rows_read INTEGER NOT NULL DEFAULT 0,
				points_parsed INTEGER NOT NULL DEFAULT 0,
				diagnostics INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL DEFAULT '',
				last_value REAL,
				week_over_week REAL,
				year_over_year REAL,
				month_to_date REAL,
				quarter_to_date REAL,
				year_to_date REAL,
				config_params TEXT
			);
		`, quoted)
	}
}

// getCreateRunPointsQuery returns the CREATE TABLE query for trendbox_run_points.
func getCreateRunPointsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(runPointsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				bucket_date DATETIME(6) NOT NULL,
				value DOUBLE NOT NULL,
				target DOUBLE,
				historical_value DOUBLE,
				PRIMARY KEY (run_id, bucket_date)
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				bucket_date TIMESTAMPTZ NOT NULL,
				value DOUBLE PRECISION NOT NULL,
				target DOUBLE PRECISION,
				historical_value DOUBLE PRECISION,
				PRIMARY KEY (run_id, bucket_date)
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				bucket_date TEXT NOT NULL,
				value REAL NOT NULL,
				target REAL,
				historical_value REAL,
				PRIMARY KEY (run_id, bucket_date)
			);
		`, quoted)
	}
}

// disabled reports whether the store records nothing.
func (rs *RunStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(variant schema.Variant, startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quoted := quoteTableName(runsTable, rs.backend)
	var runID int64

	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (variant, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quoted)
		err = rs.db.QueryRow(query, string(variant), startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (variant, start_time, config_params) VALUES (?, ?, ?)`, quoted)
		var result sql.Result
		result, err = rs.db.Exec(query, string(variant), formatTime(startTime, rs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// RecordPoints stores the windowed series of a run in one transaction.
func (rs *RunStoreImpl) RecordPoints(runID int64, points []schema.TimeSeriesPoint) error {
	if rs.disabled() || len(points) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, bucket_date, value, target, historical_value) VALUES (%s)`,
		quoteTableName(runPointsTable, rs.backend), placeholders(rs.backend, 5))

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range points {
		if _, err := stmt.Exec(runID, formatTime(p.Date, rs.backend), p.Value, p.Target, p.HistoricalValue); err != nil {
			return fmt.Errorf("failed to insert point %s: %w", p.Date.Format(contract.DateTimeFormat), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit points: %w", err)
	}
	return nil
}

// EndRun updates the run with completion data taken from its summary.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, summary schema.Summary) error {
	if rs.disabled() {
		return nil
	}

	quoted := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quoted, placeholders(rs.backend, 1))
	startTime, err := rs.scanTime(rs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	var lastValue null.Float
	if summary.BoxScore != nil {
		lastValue = null.FloatFrom(summary.BoxScore.LastValue)
	}

	cols := []string{
		"end_time", "run_duration_ms", "rows_read", "points_parsed", "diagnostics", "status",
		"last_value", "week_over_week", "year_over_year", "month_to_date", "quarter_to_date", "year_to_date",
	}
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = %s", col, placeholderAt(rs.backend, i+1))
	}
	update := fmt.Sprintf(`UPDATE %s SET %s WHERE run_id = %s`, quoted, strings.Join(sets, ", "), placeholderAt(rs.backend, len(cols)+1))

	g := summary.Growth
	args := []any{
		formatTime(endTime, rs.backend), endTime.Sub(startTime).Milliseconds(),
		summary.RowsRead, summary.Points, len(summary.Diagnostics), string(summary.Status),
		lastValue, g.WeekOverWeek, g.YearOverYear, g.MonthToDate, g.QuarterToDate, g.YearToDate,
		runID,
	}

	if _, err := rs.db.Exec(update, args...); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (rs *RunStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	runs := quoteTableName(runsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := rs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		var lastRaw any
		if err := row.Scan(&status.LastRunID, &lastRaw); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		last, err := rs.parseTime(lastRaw)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = last

		oldest, err := rs.scanTime(rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest
	}

	for _, table := range []string{runsTable, runPointsTable} {
		var count int64
		if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalPoints = int(status.TableSizes[runPointsTable])

	return status, nil
}

// GetAllRuns retrieves all runs ordered by ID.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, variant, start_time, end_time, run_duration_ms, rows_read, points_parsed,
		diagnostics, status, last_value, week_over_week, year_over_year, month_to_date, quarter_to_date,
		year_to_date, config_params FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var r schema.RunRecord
		var startRaw, endRaw any
		if err := rows.Scan(&r.RunID, &r.Variant, &startRaw, &endRaw, &r.RunDurationMs, &r.RowsRead, &r.PointsParsed,
			&r.Diagnostics, &r.Status, &r.LastValue, &r.WeekOverWeek, &r.YearOverYear, &r.MonthToDate,
			&r.QuarterToDate, &r.YearToDate, &r.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if r.StartTime, err = rs.parseTime(startRaw); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if endRaw != nil {
			end, err := rs.parseTime(endRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			r.EndTime = &end
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllRunPoints retrieves all recorded points ordered by run and bucket.
func (rs *RunStoreImpl) GetAllRunPoints() ([]schema.RunPointRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, bucket_date, value, target, historical_value FROM %s ORDER BY run_id, bucket_date`,
		quoteTableName(runPointsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query run points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunPointRecord
	for rows.Next() {
		var r schema.RunPointRecord
		var bucketRaw any
		if err := rows.Scan(&r.RunID, &bucketRaw, &r.Value, &r.Target, &r.HistoricalValue); err != nil {
			return nil, fmt.Errorf("failed to scan run point: %w", err)
		}
		if r.BucketDate, err = rs.parseTime(bucketRaw); err != nil {
			return nil, fmt.Errorf("failed to parse bucket_date: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run points: %w", err)
	}
	return results, nil
}

// scanTime reads a single timestamp column from row.
func (rs *RunStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	var raw any
	if err := row.Scan(&raw); err != nil {
		return time.Time{}, err
	}
	return rs.parseTime(raw)
}

// parseTime converts a scanned timestamp. SQLite stores RFC3339 text while
// MySQL and PostgreSQL hand back native times.
func (rs *RunStoreImpl) parseTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return time.Parse(time.RFC3339Nano, v)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(v))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value of type %T", raw)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.Format(time.RFC3339Nano)
	}
	return t
}

// placeholderAt returns the bind parameter for the 1-based position n.
func placeholderAt(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// placeholders returns n comma-separated bind parameters.
func placeholders(backend schema.DatabaseBackend, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = placeholderAt(backend, i+1)
	}
	return strings.Join(ps, ", ")
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return fmt.Sprintf("`%s`", name)
	}
	return fmt.Sprintf("%q", name)
}
