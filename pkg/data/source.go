package data

import (
	"database/sql"
	"errors"
	"fmt"
)

const (
	// SurfaceWaterType is the water_type code for surface water sources.
	SurfaceWaterType = "SW"

	insertSourceSQL = `INSERT INTO source (id, water_type, pop_est, x, y)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			water_type = excluded.water_type,
			pop_est = excluded.pop_est,
			x = excluded.x,
			y = excluded.y
	`

	selectSourcesByTypeSQL = `SELECT id, water_type, pop_est, x, y
		FROM source
		WHERE water_type = ?
		ORDER BY id
	`
)

// Source is a water source point with its estimated served population.
type Source struct {
	ID        int64    `json:"id"`
	WaterType string   `json:"water_type"`
	PopEst    *float64 `json:"pop_est,omitempty"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
}

// SaveSources upserts source points in a single transaction.
func SaveSources(db *sql.DB, list []*Source) error {
	if db == nil {
		return errDBNotInitialized
	}

	stmt, err := db.Prepare(insertSourceSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare source insert statement: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, s := range list {
		if s == nil {
			continue
		}
		if _, err = tx.Stmt(stmt).Exec(s.ID, s.WaterType, nullFloat(s.PopEst), s.X, s.Y); err != nil {
			rollbackTransaction(tx)
			return fmt.Errorf("error inserting source %d: %w", s.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListSources returns all source points of the given water type.
func ListSources(db *sql.DB, waterType string) ([]*Source, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if waterType == "" {
		return nil, errors.New("waterType is required")
	}

	stmt, err := db.Prepare(selectSourcesByTypeSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare source select statement: %w", err)
	}

	rows, err := stmt.Query(waterType)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute select statement: %w", err)
	}
	defer rows.Close()

	list := make([]*Source, 0)
	for rows.Next() {
		s := &Source{}
		var pop sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.WaterType, &pop, &s.X, &s.Y); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		s.PopEst = floatPtr(pop)
		list = append(list, s)
	}

	return list, rows.Err()
}
