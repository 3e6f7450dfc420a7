// Package query runs SQL (csvq dialect) over the scenes and characters of a document.
package query

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/mithrandie/csvq-driver"
	"github.com/natefinch/atomic"
	log "github.com/sirupsen/logrus"

	"github.com/sagan/laras/features/export"
	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util/stringutil"
)

// Table names available to queries.
const (
	TABLE_SCENES     = "scenes"
	TABLE_CHARACTERS = "characters"
)

var CHARACTER_COLUMNS = []string{"id", "name", "role", "scenes"}

type Result struct {
	Columns []string
	Rows    [][]string
}

// Run executes sql against doc. The "scenes" table has export.CSV_COLUMNS columns,
// the "characters" table has CHARACTER_COLUMNS (scenes is the appearance count).
// Values are text; nulls are empty strings.
func Run(ctx context.Context, doc *story.Document, sql string) (*Result, error) {
	dir, err := os.MkdirTemp("", "laras-query-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	if err = writeTables(dir, doc); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("csvq", dir)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	rows, err := db.QueryxContext(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	result := &Result{Columns: cols}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			switch v := v.(type) {
			case nil:
			case []byte:
				row[i] = string(v)
			default:
				row[i] = fmt.Sprint(v)
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	log.Debugf("query %q: %d rows", sql, len(result.Rows))
	return result, nil
}

func writeTables(dir string, doc *story.Document) error {
	buf := &bytes.Buffer{}
	if err := export.WriteCSV(buf, doc.Scenes); err != nil {
		return err
	}
	if err := atomic.WriteFile(filepath.Join(dir, TABLE_SCENES+".csv"), buf); err != nil {
		return err
	}

	appearances := map[string]int{}
	for i := range doc.Scenes {
		for _, ref := range doc.Scenes[i].Refs() {
			appearances[ref]++
		}
	}
	buf.Reset()
	writer := csv.NewWriter(buf)
	writer.Write(CHARACTER_COLUMNS)
	for _, c := range doc.Characters {
		writer.Write([]string{c.CharacterID, c.DisplayName, c.Role, strconv.Itoa(appearances[c.CharacterID])})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return atomic.WriteFile(filepath.Join(dir, TABLE_CHARACTERS+".csv"), buf)
}

// WriteCSV writes r as csv with a header line. With oneLine, newlines in fields are replaced by spaces.
func (r *Result) WriteCSV(w io.Writer, oneLine bool) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(r.Columns); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if oneLine {
			row = append([]string(nil), row...)
			for i := range row {
				row[i] = stringutil.ReplaceNewLinesWithSpace(row[i])
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
