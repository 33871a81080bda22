package data

import (
	"database/sql"
	"errors"
	"fmt"
)

const (
	insertReachSQL = `INSERT INTO reach (comid, basin, start_flag)
		VALUES (?, ?, ?)
		ON CONFLICT (comid, basin) DO UPDATE SET
			start_flag = excluded.start_flag
	`

	selectHeadwaterCatchmentsSQL = `SELECT comid
		FROM reach
		WHERE basin = ?
		  AND start_flag = 1
		ORDER BY comid
	`
)

// Reach is a stream segment attribute record. StartFlag marks a headwater
// reach, one with no upstream tributary; its catchment is the contributing
// drainage area scored by the headwaters pipeline.
type Reach struct {
	ComID     int64  `json:"comid"`
	Basin     string `json:"basin"`
	StartFlag bool   `json:"start_flag"`
}

// SaveReaches upserts reach records in a single transaction.
func SaveReaches(db *sql.DB, list []*Reach) error {
	if db == nil {
		return errDBNotInitialized
	}

	stmt, err := db.Prepare(insertReachSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare reach insert statement: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, r := range list {
		if r == nil {
			continue
		}
		flag := 0
		if r.StartFlag {
			flag = 1
		}
		if _, err = tx.Stmt(stmt).Exec(r.ComID, r.Basin, flag); err != nil {
			rollbackTransaction(tx)
			return fmt.Errorf("error inserting reach %d (%s): %w", r.ComID, r.Basin, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// HeadwaterCatchments returns the catchment IDs of the basin's headwater
// reaches. Catchment and reach share the same ID in the hydrography model.
func HeadwaterCatchments(db *sql.DB, basin string) (map[int]bool, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if basin == "" {
		return nil, errors.New("basin is required")
	}

	stmt, err := db.Prepare(selectHeadwaterCatchmentsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare headwater select statement: %w", err)
	}

	rows, err := stmt.Query(basin)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute select statement: %w", err)
	}
	defer rows.Close()

	set := make(map[int]bool)
	for rows.Next() {
		var comid int64
		if err := rows.Scan(&comid); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		set[int(comid)] = true
	}

	return set, rows.Err()
}
