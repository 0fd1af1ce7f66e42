package database

import "database/sql"

// InsertRun starts a new run record and returns its ID.
func (db *DB) InsertRun(catalog, model string) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO runs (catalog, model) VALUES (?, ?)", catalog, model,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// FinishRun records the final counters and output paths for a run.
func (db *DB) FinishRun(runID int64, processed, succeeded, failed int, csvPath, reportPath *string) error {
	_, err := db.conn.Exec(
		`UPDATE runs SET processed = ?, succeeded = ?, failed = ?,
		csv_path = ?, report_path = ?, finished_at = datetime('now')
		WHERE id = ?`,
		processed, succeeded, failed, csvPath, reportPath, runID,
	)
	return err
}

// GetRun returns a run by ID, or nil if it does not exist.
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.conn.QueryRow(
		`SELECT id, catalog, model, processed, succeeded, failed,
		report_path, csv_path, started_at, finished_at
		FROM runs WHERE id = ?`, runID,
	)
	return scanRun(row)
}

// GetLatestRun returns the most recent run, or nil when none exist.
func (db *DB) GetLatestRun() (*Run, error) {
	row := db.conn.QueryRow(
		`SELECT id, catalog, model, processed, succeeded, failed,
		report_path, csv_path, started_at, finished_at
		FROM runs ORDER BY id DESC LIMIT 1`,
	)
	return scanRun(row)
}

// GetAllRuns returns every run, newest first.
func (db *DB) GetAllRuns() ([]Run, error) {
	rows, err := db.conn.Query(
		`SELECT id, catalog, model, processed, succeeded, failed,
		report_path, csv_path, started_at, finished_at
		FROM runs ORDER BY id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Catalog, &r.Model, &r.Processed, &r.Succeeded,
			&r.Failed, &r.ReportPath, &r.CSVPath, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func scanRun(row *sql.Row) (*Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Catalog, &r.Model, &r.Processed, &r.Succeeded,
		&r.Failed, &r.ReportPath, &r.CSVPath, &r.StartedAt, &r.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetStats aggregates totals across all runs for the status command.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{TierCounts: make(map[string]int)}

	if err := db.conn.QueryRow("SELECT COUNT(*) FROM runs").Scan(&stats.TotalRuns); err != nil {
		return nil, err
	}
	err := db.conn.QueryRow(
		`SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN outcome = 'pass' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN outcome = 'best_effort' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN outcome = 'failed' THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(attempts), 0)
		FROM run_products`,
	).Scan(&stats.TotalProducts, &stats.PassedProducts, &stats.BestEffort,
		&stats.FailedProducts, &stats.AvgAttempts)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(
		"SELECT tier, COUNT(*) FROM run_products WHERE tier IS NOT NULL GROUP BY tier",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tier string
		var count int
		if err := rows.Scan(&tier, &count); err != nil {
			return nil, err
		}
		stats.TierCounts[tier] = count
	}
	return stats, rows.Err()
}
