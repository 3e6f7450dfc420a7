package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sagan/laras/features/story"
)

var CSV_COLUMNS = []string{"index", "id", "title", "duration", "camera", "characters", "notes"}

// WriteCSV writes scenes as CSV with CSV_COLUMNS header. Fields containing commas,
// quotes or line breaks are quoted per RFC 4180. Character references are joined by "|".
func WriteCSV(w io.Writer, scenes []story.Scene) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSV_COLUMNS); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, scene := range scenes {
		index := scene.Index
		if index == 0 {
			index = i + 1
		}
		row := []string{
			strconv.Itoa(index),
			scene.ID,
			scene.Name,
			strconv.Itoa(scene.Seconds),
			CameraSummary(scene.Camera),
			strings.Join(scene.Refs(), "|"),
			scene.Notes,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing csv writer: %w", err)
	}
	return nil
}
