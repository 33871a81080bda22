package data

import (
	"database/sql"
	"errors"
	"fmt"
)

const (
	insertFCodeSQL = `INSERT INTO fcode (fcode, description, selected)
		VALUES (?, ?, ?)
		ON CONFLICT (fcode) DO UPDATE SET
			description = excluded.description,
			selected = excluded.selected
	`

	selectSelectedFCodesSQL = `SELECT fcode FROM fcode WHERE selected = 1 ORDER BY fcode`
)

// FCode is an NHD feature-type code and whether it is selected for the hydro
// mask.
type FCode struct {
	Code        int64  `json:"fcode"`
	Description string `json:"description,omitempty"`
	Selected    bool   `json:"selected"`
}

// SaveFCodes upserts feature codes in a single transaction.
func SaveFCodes(db *sql.DB, list []*FCode) error {
	if db == nil {
		return errDBNotInitialized
	}

	stmt, err := db.Prepare(insertFCodeSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare fcode insert statement: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, c := range list {
		if c == nil {
			continue
		}
		sel := 0
		if c.Selected {
			sel = 1
		}
		if _, err = tx.Stmt(stmt).Exec(c.Code, c.Description, sel); err != nil {
			rollbackTransaction(tx)
			return fmt.Errorf("error inserting fcode %d: %w", c.Code, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SelectedFCodes returns the set of feature codes flagged for the hydro mask.
func SelectedFCodes(db *sql.DB) (map[int]bool, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectSelectedFCodesSQL)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute select statement: %w", err)
	}
	defer rows.Close()

	set := make(map[int]bool)
	for rows.Next() {
		var code int64
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		set[int(code)] = true
	}

	return set, rows.Err()
}
