package importer_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/english-rpg/trainer/internal/domain/item"
	"github.com/english-rpg/trainer/internal/domain/trainer"
	"github.com/english-rpg/trainer/internal/importer"
)

var now = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeEnricher struct{ calls int }

func (f *fakeEnricher) ExampleFor(_ context.Context, word, _, _ string) string {
	f.calls++
	return "Example with " + word + "."
}

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "words.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportFile_Excel(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"word", "translation", "example", "topic"},
		{"apple", "pomme", "I ate an apple.", "food"},
		{"go (went, gone)", "aller", "", "verbs"},
		{"", "orphelin", "", ""},
	})

	st := trainer.NewState()
	im := importer.New(nil, testLogger())

	res, err := im.ImportFile(context.Background(), st, importer.DefaultConfig(path), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Processed != 3 || res.Created != 2 || len(res.Errors) != 1 {
		t.Errorf("unexpected result: %+v", res)
	}

	var goCard *item.Item
	for _, e := range st.Items {
		if e.Item.Title == "go" {
			goCard = e.Item
		}
	}
	if goCard == nil {
		t.Fatal("parenthesized extras should be stripped from the word")
	}
	if goCard.Content != "aller" || goCard.Topic != "verbs" {
		t.Errorf("unexpected card: %+v", goCard)
	}
	if goCard.Kind != item.KindVocabulary {
		t.Errorf("kind = %q, want vocabulary", goCard.Kind)
	}
}

func TestImportFile_UpdateKeepsHistory(t *testing.T) {
	st := trainer.NewState()
	existing := item.NewVocabulary("apple", "vieille traduction", "food", "", now.AddDate(0, 0, -30))
	st.AddItem(existing)

	path := writeWorkbook(t, [][]string{
		{"word", "translation"},
		{"Apple", "pomme"},
	})

	im := importer.New(nil, testLogger())
	res, err := im.ImportFile(context.Background(), st, importer.DefaultConfig(path), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Updated != 1 || res.Created != 0 {
		t.Errorf("unexpected result: %+v", res)
	}

	e, err := st.Item(existing.ID)
	if err != nil {
		t.Fatalf("existing item vanished: %v", err)
	}
	if e.Item.Content != "pomme" {
		t.Errorf("translation not updated: %q", e.Item.Content)
	}
	if len(st.Items) != 1 {
		t.Errorf("import created a duplicate, %d items", len(st.Items))
	}
}

func TestImportFile_SkipsUnchanged(t *testing.T) {
	st := trainer.NewState()
	st.AddItem(item.NewVocabulary("apple", "pomme", "food", "", now))

	path := writeWorkbook(t, [][]string{
		{"word", "translation", "example", "topic"},
		{"apple", "pomme", "", "food"},
	})

	im := importer.New(nil, testLogger())
	res, err := im.ImportFile(context.Background(), st, importer.DefaultConfig(path), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Skipped != 1 || res.Created != 0 || res.Updated != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestImportFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	data := "word,translation,example,topic\ncat,chat,,animals\ndog,chien,,animals\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	st := trainer.NewState()
	im := importer.New(nil, testLogger())
	res, err := im.ImportFile(context.Background(), st, importer.DefaultConfig(path), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created != 2 {
		t.Errorf("created = %d, want 2", res.Created)
	}
}

func TestImportFile_Enrichment(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"word", "translation", "example"},
		{"apple", "pomme", "I ate an apple."},
		{"pear", "poire", ""},
	})

	enricher := &fakeEnricher{}
	st := trainer.NewState()
	cfg := importer.DefaultConfig(path)
	cfg.Enrich = true
	cfg.MaxParallel = 2

	im := importer.New(enricher, testLogger())
	if _, err := im.ImportFile(context.Background(), st, cfg, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if enricher.calls != 1 {
		t.Errorf("enricher calls = %d, want 1 (only the example-less word)", enricher.calls)
	}
	for _, e := range st.Items {
		if e.Item.Title == "pear" && e.Item.Example != "Example with pear." {
			t.Errorf("pear not enriched: %q", e.Item.Example)
		}
	}
}

func TestExportFile_RoundTrip(t *testing.T) {
	st := trainer.NewState()
	st.AddItem(item.NewVocabulary("zebra", "zèbre", "animals", "A zebra has stripes.", now))
	st.AddItem(item.NewVocabulary("apple", "pomme", "food", "", now))

	path := filepath.Join(t.TempDir(), "export.xlsx")
	im := importer.New(nil, testLogger())

	n, err := im.ExportFile(st, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("exported = %d, want 2", n)
	}

	// An export must be re-importable without changes.
	st2 := trainer.NewState()
	res, err := im.ImportFile(context.Background(), st2, importer.DefaultConfig(path), now)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if res.Created != 2 || len(res.Errors) != 0 {
		t.Errorf("unexpected re-import result: %+v", res)
	}
	for _, e := range st2.Items {
		if e.Item.Title == "zebra" && e.Item.Example != "A zebra has stripes." {
			t.Errorf("example lost in round trip: %q", e.Item.Example)
		}
	}
}

func TestImportFile_MissingFile(t *testing.T) {
	im := importer.New(nil, testLogger())
	cfg := importer.DefaultConfig(filepath.Join(t.TempDir(), "nope.xlsx"))
	if _, err := im.ImportFile(context.Background(), trainer.NewState(), cfg, now); err == nil {
		t.Error("expected an error for a missing file")
	}
}
