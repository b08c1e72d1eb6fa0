// Package sheet reads and writes the job table as an .xlsx workbook.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"go-multisite-scraper/internal/extract"
	"go-multisite-scraper/internal/models"
	"go-multisite-scraper/internal/schema"
)

// SheetName is the worksheet holding the job table.
const SheetName = "Jobs"

// Workbook reads and writes one .xlsx file path.
type Workbook struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Workbook {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workbook{log: log}
}

// Read loads every job stored at path. A missing file is an empty table.
// Header drift is logged and normalized away.
func (w *Workbook) Read(path string) ([]models.Job, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheet := SheetName
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		// files written by older tools use the default sheet
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	index, drift := schema.Mapping(rows[0])
	if !drift.Empty() {
		w.log.Warn("⚠️ Spreadsheet columns differ from the current schema",
			zap.String("path", path),
			zap.Strings("extra", drift.Extra),
			zap.Strings("missing", drift.Missing),
		)
	}

	jobs := make([]models.Job, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		jobs = append(jobs, schema.FromMapped(index, row))
	}
	return jobs, nil
}

// Write replaces the workbook at path with the header row and one row per
// job. The file is written next to the destination and renamed over it, so
// a failed write leaves the previous file intact.
func (w *Workbook) Write(path string, jobs []models.Job) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := toRow(schema.Headers())
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := styleHeader(f, len(header)); err != nil {
		return err
	}

	for i, job := range jobs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := toRow(schema.Values(job))
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jobs-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	w.log.Info("📁 Spreadsheet saved", zap.String("path", path), zap.Int("rows", len(jobs)))
	return nil
}

func styleHeader(f *excelize.File, columns int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// toRow stores every value as a string cell so IDs and "3-5" style values
// are never reinterpreted as numbers or dates. Values are clamped to the
// cell size limit of the format; uncapped descriptions can exceed it.
func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = extract.Truncate(v, excelize.TotalCellChars)
	}
	return row
}

func blank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
