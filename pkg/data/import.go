package data

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ImportResult summarizes a CSV import: rows written and rows skipped for
// per-row parse problems. Skipped rows never abort the import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportSources loads water source points from a CSV file with columns
// id, water_type, pop_est, x, y. An empty pop_est is a missing value.
func ImportSources(db *sql.DB, fp string) (*ImportResult, error) {
	res := &ImportResult{}
	list := make([]*Source, 0)

	err := readCSV(fp, []string{"id", "water_type", "pop_est", "x", "y"}, func(line int, rec []string) {
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err == nil && rec[1] == "" {
			err = fmt.Errorf("empty water_type")
		}
		var x, y float64
		if err == nil {
			x, err = strconv.ParseFloat(rec[3], 64)
		}
		if err == nil {
			y, err = strconv.ParseFloat(rec[4], 64)
		}
		pop, perr := parseOptionalFloat(rec[2])
		if err == nil {
			err = perr
		}
		if err != nil {
			log.Warnf("skipping source row %d: %v", line, err)
			res.Skipped++
			return
		}
		list = append(list, &Source{ID: id, WaterType: rec[1], PopEst: pop, X: x, Y: y})
	})
	if err != nil {
		return nil, err
	}

	if err := SaveSources(db, list); err != nil {
		return nil, err
	}
	res.Imported = len(list)
	return res, nil
}

// ImportReaches loads reach attributes from a CSV file with columns
// comid, basin, start_flag.
func ImportReaches(db *sql.DB, fp string) (*ImportResult, error) {
	res := &ImportResult{}
	list := make([]*Reach, 0)

	err := readCSV(fp, []string{"comid", "basin", "start_flag"}, func(line int, rec []string) {
		comid, err := strconv.ParseInt(rec[0], 10, 64)
		var flag int
		if err == nil {
			flag, err = strconv.Atoi(rec[2])
		}
		if err == nil && rec[1] == "" {
			err = fmt.Errorf("empty basin")
		}
		if err != nil {
			log.Warnf("skipping reach row %d: %v", line, err)
			res.Skipped++
			return
		}
		list = append(list, &Reach{ComID: comid, Basin: rec[1], StartFlag: flag == 1})
	})
	if err != nil {
		return nil, err
	}

	if err := SaveReaches(db, list); err != nil {
		return nil, err
	}
	res.Imported = len(list)
	return res, nil
}

// ImportFCodes loads NHD feature codes from a CSV file with columns
// fcode, description, selected.
func ImportFCodes(db *sql.DB, fp string) (*ImportResult, error) {
	res := &ImportResult{}
	list := make([]*FCode, 0)

	err := readCSV(fp, []string{"fcode", "description", "selected"}, func(line int, rec []string) {
		code, err := strconv.ParseInt(rec[0], 10, 64)
		var sel int
		if err == nil {
			sel, err = strconv.Atoi(rec[2])
		}
		if err != nil {
			log.Warnf("skipping fcode row %d: %v", line, err)
			res.Skipped++
			return
		}
		list = append(list, &FCode{Code: code, Description: rec[1], Selected: sel == 1})
	})
	if err != nil {
		return nil, err
	}

	if err := SaveFCodes(db, list); err != nil {
		return nil, err
	}
	res.Imported = len(list)
	return res, nil
}

// ImportMeasurements loads site metric observations from a CSV file with
// columns site, metric, value. An empty value is a missing observation and
// is preserved as NULL.
func ImportMeasurements(db *sql.DB, fp string) (*ImportResult, error) {
	res := &ImportResult{}
	list := make([]*Measurement, 0)

	err := readCSV(fp, []string{"site", "metric", "value"}, func(line int, rec []string) {
		val, err := parseOptionalFloat(rec[2])
		if err == nil && (rec[0] == "" || rec[1] == "") {
			err = fmt.Errorf("empty site or metric")
		}
		if err != nil {
			log.Warnf("skipping measurement row %d: %v", line, err)
			res.Skipped++
			return
		}
		list = append(list, &Measurement{Site: rec[0], Metric: rec[1], Value: val})
	})
	if err != nil {
		return nil, err
	}

	if err := SaveMeasurements(db, list); err != nil {
		return nil, err
	}
	res.Imported = len(list)
	return res, nil
}

func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// readCSV streams a headered CSV file, validating the header against the
// expected column names and handing each record to fn with its line number.
func readCSV(fp string, cols []string, fn func(line int, rec []string)) error {
	fl, err := os.Open(fp)
	if err != nil {
		return fmt.Errorf("failed to open csv: %s: %w", fp, err)
	}
	defer fl.Close()

	r := csv.NewReader(fl)
	r.FieldsPerRecord = len(cols)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("failed to read csv header: %s: %w", fp, err)
	}
	for i, c := range cols {
		if !strings.EqualFold(strings.TrimSpace(header[i]), c) {
			return fmt.Errorf("unexpected csv header in %s: want %v, got %v", fp, cols, header)
		}
	}

	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			// Structural problems (wrong field count) skip the row.
			log.Warnf("skipping malformed csv row %d in %s: %v", line, fp, err)
			continue
		}
		fn(line, rec)
	}
}
