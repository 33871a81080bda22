// Package model implements the scoring pipelines: priority multiplier
// derivation, measurement rescaling, the surface-water aggregation loop, and
// the headwater and hydro raster products. Batch loops follow
// at-least-partial-success semantics: one bad record is skipped and
// reported, never aborting the run.
package model

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// RecordError identifies a single record, basin, or dataset that failed
// inside a batch loop while the rest of the batch completed.
type RecordError struct {
	ID  string
	Err error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %s: %v", e.ID, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// WriteFailList persists the IDs of failed records to a timestamped CSV side
// file in dir and returns its path. The output of a run with a non-empty
// fail list is incomplete and the file is the itemized account of what is
// missing.
func WriteFailList(dir, prefix string, failed []RecordError) (string, error) {
	if len(failed) == 0 {
		return "", errors.New("no failures to write")
	}

	ts := time.Now().Format("20060102_150405")
	fp := filepath.Join(dir, fmt.Sprintf("%s_faillog_%s.csv", prefix, ts))

	fl, err := os.Create(fp)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create fail log: %s", fp)
	}
	defer fl.Close()

	w := csv.NewWriter(fl)
	if err := w.Write([]string{"id", "error"}); err != nil {
		return "", errors.Wrap(err, "failed to write fail log header")
	}
	for _, f := range failed {
		if err := w.Write([]string{f.ID, f.Err.Error()}); err != nil {
			return "", errors.Wrapf(err, "failed to write fail log row: %s", f.ID)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrapf(err, "failed to flush fail log: %s", fp)
	}
	return fp, nil
}
