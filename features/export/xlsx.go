package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sagan/laras/features/story"
)

const (
	SHEET_SCENES     = "Scenes"
	SHEET_CHARACTERS = "Characters"
)

var xlsxSceneColumns = []any{"index", "id", "title", "duration", "camera", "characters",
	"location", "action", "dialogue", "music", "notes"}

var xlsxCharacterColumns = []any{"character_id", "display_name", "role", "age", "gender", "design", "scenes"}

// WriteXLSX writes doc as an Excel workbook with a scenes sheet and a characters sheet.
func WriteXLSX(w io.Writer, doc *story.Document) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := f.SetSheetName("Sheet1", SHEET_SCENES); err != nil {
		return err
	}
	if _, err := f.NewSheet(SHEET_CHARACTERS); err != nil {
		return err
	}

	rows := [][]any{xlsxSceneColumns}
	for i := range doc.Scenes {
		scene := &doc.Scenes[i]
		rows = append(rows, []any{scene.Index, scene.ID, scene.Name, scene.Seconds, CameraSummary(scene.Camera),
			strings.Join(scene.Refs(), ", "), scene.Environment.Location, scene.Action,
			cleanDialogue(scene.Dialogue), scene.MusicCue, scene.Notes})
	}
	if err := writeRows(f, SHEET_SCENES, rows); err != nil {
		return err
	}

	appearances := map[string]int{}
	for _, scene := range doc.Scenes {
		for _, ref := range scene.Refs() {
			appearances[ref]++
		}
	}
	rows = [][]any{xlsxCharacterColumns}
	for _, c := range doc.Characters {
		rows = append(rows, []any{c.CharacterID, c.DisplayName, c.Role, c.Age, c.Gender, c.Design,
			appearances[c.CharacterID]})
	}
	for _, r := range doc.Roster {
		if doc.Character(r.ID) == nil {
			rows = append(rows, []any{r.ID, r.Name, r.Role, "", "", "", appearances[r.ID]})
		}
	}
	if err := writeRows(f, SHEET_CHARACTERS, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(SHEET_SCENES, "C", "C", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(SHEET_SCENES, "H", "I", 48); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
