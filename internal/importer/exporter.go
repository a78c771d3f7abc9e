package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/english-rpg/trainer/internal/domain/item"
	"github.com/english-rpg/trainer/internal/domain/trainer"
)

// ExportFile writes every vocabulary card to an xlsx workbook using the
// same column layout ImportFile reads, so an export can be re-imported
// as-is. Returns the number of exported words.
func (im *Importer) ExportFile(st *trainer.State, path string) (int, error) {
	var cards []*item.Item
	for _, e := range st.Items {
		if e.Item.Kind == item.KindVocabulary {
			cards = append(cards, e.Item)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		return strings.ToLower(cards[i].Title) < strings.ToLower(cards[j].Title)
	})

	f := excelize.NewFile()
	defer f.Close()

	header := []string{"word", "translation", "example", "topic"}
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return 0, fmt.Errorf("export header: %w", err)
		}
		if err := f.SetCellValue("Sheet1", cell, name); err != nil {
			return 0, fmt.Errorf("export header: %w", err)
		}
	}

	for i, c := range cards {
		values := []string{c.Title, c.Content, c.Example, c.Topic}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return 0, fmt.Errorf("export row %d: %w", i+2, err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				return 0, fmt.Errorf("export row %d: %w", i+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("save workbook: %w", err)
	}
	im.logger.Info("export finished", "file", path, "words", len(cards))
	return len(cards), nil
}
