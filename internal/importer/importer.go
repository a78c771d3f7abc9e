// Package importer loads vocabulary from Excel and CSV files into the
// trainer state. Imported words become review items, optionally enriched
// with model-generated example sentences.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/english-rpg/trainer/internal/domain/item"
	"github.com/english-rpg/trainer/internal/domain/trainer"
	"github.com/english-rpg/trainer/internal/worker"
)

// Enricher produces an example sentence for a word, or "" when it cannot.
type Enricher interface {
	ExampleFor(ctx context.Context, word, translation, model string) string
}

// Config describes the source file layout.
type Config struct {
	Path              string
	Sheet             string
	WordColumn        string
	TranslationColumn string
	ExampleColumn     string
	TopicColumn       string
	StartRow          int // 1-based first data row
	Enrich            bool
	MaxParallel       int
	Model             string
}

// DefaultConfig assumes word/translation/example/topic in columns A-D with a
// header row.
func DefaultConfig(path string) Config {
	return Config{
		Path:              path,
		Sheet:             "Sheet1",
		WordColumn:        "A",
		TranslationColumn: "B",
		ExampleColumn:     "C",
		TopicColumn:       "D",
		StartRow:          2,
		MaxParallel:       1,
	}
}

// Result summarizes one import run.
type Result struct {
	Processed int
	Created   int
	Updated   int
	Skipped   int
	Errors    []string
}

type row struct {
	word        string
	translation string
	example     string
	topic       string
}

// Importer turns spreadsheet rows into vocabulary items.
type Importer struct {
	enricher Enricher
	logger   *slog.Logger
}

func New(enricher Enricher, logger *slog.Logger) *Importer {
	return &Importer{enricher: enricher, logger: logger}
}

// ImportFile reads the file and merges its rows into the state. Rows whose
// word already exists (case-insensitive) update that item's translation and
// topic in place, keeping its review history. Rows without a word and a
// translation are reported as errors but do not abort the run.
func (im *Importer) ImportFile(ctx context.Context, st *trainer.State, cfg Config, now time.Time) (*Result, error) {
	rows, err := im.read(cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	existing := vocabularyIndex(st)

	var created []*item.Item
	for i, r := range rows {
		res.Processed++
		r.word = cleanWord(r.word)
		r.translation = strings.TrimSpace(r.translation)
		if r.word == "" || r.translation == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: word and translation are required", cfg.StartRow+i))
			continue
		}

		if it, ok := existing[strings.ToLower(r.word)]; ok {
			if it.Content == r.translation && (r.topic == "" || it.Topic == r.topic) {
				res.Skipped++
				continue
			}
			it.Content = r.translation
			if r.topic != "" {
				it.Topic = r.topic
			}
			if r.example != "" {
				it.Example = r.example
			}
			res.Updated++
			continue
		}

		it := item.NewVocabulary(r.word, r.translation, r.topic, r.example, now)
		st.AddItem(it)
		existing[strings.ToLower(r.word)] = it
		created = append(created, it)
		res.Created++
	}

	if cfg.Enrich && im.enricher != nil {
		im.enrich(ctx, cfg, created)
	}

	im.logger.Info("import finished",
		"file", cfg.Path,
		"created", res.Created,
		"updated", res.Updated,
		"skipped", res.Skipped,
		"errors", len(res.Errors))
	return res, nil
}

// enrich fills missing example sentences in parallel, bounded by
// cfg.MaxParallel so a large import does not flood the model server.
func (im *Importer) enrich(ctx context.Context, cfg Config, items []*item.Item) {
	var todo []*item.Item
	for _, it := range items {
		if it.Example == "" {
			todo = append(todo, it)
		}
	}
	if len(todo) == 0 {
		return
	}

	jobs := make([]worker.Job[string], len(todo))
	for i, it := range todo {
		it := it
		jobs[i] = func(ctx context.Context) string {
			return im.enricher.ExampleFor(ctx, it.Title, it.Content, cfg.Model)
		}
	}
	examples := worker.Map(ctx, cfg.MaxParallel, jobs)
	for i, ex := range examples {
		todo[i].Example = strings.TrimSpace(ex)
	}
}

func (im *Importer) read(cfg Config) ([]row, error) {
	if strings.EqualFold(filepath.Ext(cfg.Path), ".csv") {
		return readCSV(cfg)
	}
	return readExcel(cfg)
}

func readExcel(cfg Config) ([]row, error) {
	f, err := excelize.OpenFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	raw, err := f.GetRows(cfg.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", cfg.Sheet, err)
	}

	var rows []row
	for i, cells := range raw {
		if i < cfg.StartRow-1 {
			continue
		}
		rows = append(rows, row{
			word:        cell(cells, cfg.WordColumn),
			translation: cell(cells, cfg.TranslationColumn),
			example:     cell(cells, cfg.ExampleColumn),
			topic:       cell(cells, cfg.TopicColumn),
		})
	}
	return rows, nil
}

func readCSV(cfg Config) ([]row, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows []row
	line := 0
	for {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++
		if line < cfg.StartRow {
			continue
		}
		rows = append(rows, row{
			word:        cell(cells, cfg.WordColumn),
			translation: cell(cells, cfg.TranslationColumn),
			example:     cell(cells, cfg.ExampleColumn),
			topic:       cell(cells, cfg.TopicColumn),
		})
	}
	return rows, nil
}

func cell(cells []string, column string) string {
	idx := columnIndex(column)
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// columnIndex converts a column letter like "A" or "AB" to a 0-based index.
func columnIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}
	idx := 0
	for i := 0; i < len(column); i++ {
		c := column[i]
		if c < 'A' || c > 'Z' {
			return -1
		}
		idx = idx*26 + int(c-'A'+1)
	}
	return idx - 1
}

// cleanWord strips parenthesized extras like "go (went, gone)".
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		word = word[:i]
	}
	return strings.TrimSpace(word)
}

func vocabularyIndex(st *trainer.State) map[string]*item.Item {
	idx := make(map[string]*item.Item)
	for _, e := range st.Items {
		if e.Item.Kind == item.KindVocabulary {
			idx[strings.ToLower(e.Item.Title)] = e.Item
		}
	}
	return idx
}
