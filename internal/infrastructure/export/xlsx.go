package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/open-lectern/lectern/internal/core/domain"
)

// Service renders glossaries as XLSX workbooks for download.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// GlossaryXLSX returns a one-sheet workbook: a header row followed by one
// row per glossary item, in item order.
func (s *Service) GlossaryXLSX(lectureID, pageKey string, items []domain.GlossaryItem) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Glossary"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Term", "Definition", "Context"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, item := range items {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, item.Term)
		write(2, item.Definition)
		write(3, item.Context)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "B", 64)
	_ = f.SetColWidth(sheet, "C", "C", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("glossary.export.ok",
		"lecture_id", lectureID,
		"page", pageKey,
		"rows", len(items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
