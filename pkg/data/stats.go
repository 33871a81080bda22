package data

import (
	"database/sql"
	"fmt"
)

const (
	selectStatsSQL = `SELECT
			(SELECT COUNT(*) FROM source) AS sources,
			(SELECT COUNT(*) FROM reach) AS reaches,
			(SELECT COUNT(*) FROM fcode) AS fcodes,
			(SELECT COUNT(*) FROM measurement) AS measurements,
			(SELECT COUNT(*) FROM measurement WHERE score IS NOT NULL) AS scored
	`
)

// Stats summarizes the store content.
type Stats struct {
	Sources            int `json:"sources"`
	Reaches            int `json:"reaches"`
	FCodes             int `json:"fcodes"`
	Measurements       int `json:"measurements"`
	ScoredMeasurements int `json:"scored_measurements"`
}

// GetStats returns row counts for each table.
func GetStats(db *sql.DB) (*Stats, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	s := &Stats{}
	row := db.QueryRow(selectStatsSQL)
	if err := row.Scan(&s.Sources, &s.Reaches, &s.FCodes, &s.Measurements, &s.ScoredMeasurements); err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return s, nil
}
