package data

import (
	"database/sql"
	"errors"
	"fmt"
)

const (
	insertMeasurementSQL = `INSERT INTO measurement (site, metric, value)
		VALUES (?, ?, ?)
		ON CONFLICT (site, metric) DO UPDATE SET
			value = excluded.value
	`

	selectMeasurementsSQL = `SELECT site, value, score
		FROM measurement
		WHERE metric = ?
		ORDER BY site
	`

	updateMeasurementScoreSQL = `UPDATE measurement
		SET score = ?
		WHERE site = ? AND metric = ?
	`
)

// Measurement is a single site metric observation. Value and Score are nil
// when missing; a missing value never produces a score.
type Measurement struct {
	Site   string   `json:"site"`
	Metric string   `json:"metric"`
	Value  *float64 `json:"value,omitempty"`
	Score  *float64 `json:"score,omitempty"`
}

// SaveMeasurements upserts measurement values in a single transaction.
// Existing scores for re-imported rows are left in place until the next
// rescale overwrites them.
func SaveMeasurements(db *sql.DB, list []*Measurement) error {
	if db == nil {
		return errDBNotInitialized
	}

	stmt, err := db.Prepare(insertMeasurementSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare measurement insert statement: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, m := range list {
		if m == nil {
			continue
		}
		if _, err = tx.Stmt(stmt).Exec(m.Site, m.Metric, nullFloat(m.Value)); err != nil {
			rollbackTransaction(tx)
			return fmt.Errorf("error inserting measurement %s/%s: %w", m.Site, m.Metric, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListMeasurements returns all measurements for a metric.
func ListMeasurements(db *sql.DB, metric string) ([]*Measurement, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if metric == "" {
		return nil, errors.New("metric is required")
	}

	stmt, err := db.Prepare(selectMeasurementsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare measurement select statement: %w", err)
	}

	rows, err := stmt.Query(metric)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute select statement: %w", err)
	}
	defer rows.Close()

	list := make([]*Measurement, 0)
	for rows.Next() {
		m := &Measurement{Metric: metric}
		var value, score sql.NullFloat64
		if err := rows.Scan(&m.Site, &value, &score); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		m.Value = floatPtr(value)
		m.Score = floatPtr(score)
		list = append(list, m)
	}

	return list, rows.Err()
}

// UpdateMeasurementScores writes the given per-site scores for a metric in a
// single transaction. A nil score clears the column.
func UpdateMeasurementScores(db *sql.DB, metric string, scores map[string]*float64) error {
	if db == nil {
		return errDBNotInitialized
	}
	if metric == "" {
		return errors.New("metric is required")
	}

	stmt, err := db.Prepare(updateMeasurementScoreSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare score update statement: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for site, s := range scores {
		if _, err = tx.Stmt(stmt).Exec(nullFloat(s), site, metric); err != nil {
			rollbackTransaction(tx)
			return fmt.Errorf("error updating score for %s/%s: %w", site, metric, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
