package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/english-rpg/trainer/internal/cli"
	"github.com/english-rpg/trainer/internal/domain/trainer"
	"github.com/english-rpg/trainer/internal/gateway"
	"github.com/english-rpg/trainer/internal/importer"
	"github.com/english-rpg/trainer/internal/service"
	"github.com/english-rpg/trainer/internal/store"
	"github.com/english-rpg/trainer/internal/ui"
)

type memStore struct {
	st      *trainer.State
	commits int
	locked  bool
}

func (m *memStore) Load() (*trainer.State, error) { return m.st, nil }

func (m *memStore) Commit(st *trainer.State) error {
	m.st = st
	m.commits++
	return nil
}

func (m *memStore) Update(fn func(*trainer.State) error) error {
	if m.locked {
		return store.ErrLocked
	}
	if err := fn(m.st); err != nil {
		return err
	}
	m.commits++
	return nil
}

type scriptedGateway struct {
	replies []string
	calls   int
}

func (g *scriptedGateway) Invoke(context.Context, gateway.Request) (*gateway.Response, error) {
	if g.calls >= len(g.replies) {
		return nil, &gateway.CallFailure{Kind: gateway.KindConnection, Attempts: 1, Err: errors.New("no reply scripted")}
	}
	content := g.replies[g.calls]
	g.calls++
	return &gateway.Response{Content: content}, nil
}

func (g *scriptedGateway) InvokeJSON(ctx context.Context, req gateway.Request, out any) (*gateway.Response, error) {
	resp, err := g.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(resp.Content), out); err != nil {
		return nil, &gateway.CallFailure{Kind: gateway.KindMalformed, Attempts: 1, Err: err}
	}
	return resp, nil
}

func newApp(t *testing.T, input string, gw gateway.JSONClient, st *memStore) (*cli.App, *bytes.Buffer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var out bytes.Buffer
	console := ui.New(strings.NewReader(input), &out)
	vocab := service.NewVocabularyService(gw, logger)
	app := cli.New(cli.Deps{
		Console:       console,
		Store:         st,
		Exercises:     service.NewExerciseService(gw, logger),
		Lessons:       service.NewLessonService(gw, logger),
		Conversations: service.NewConversationService(gw, logger),
		Vocabulary:    vocab,
		Challenges:    service.NewChallengeService(gw, logger),
		Importer:      importer.New(vocab, logger),
		Logger:        logger,
		MaxParallel:   2,
		Now:           func() time.Time { return time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC) },
	})
	return app, &out
}

func TestRun_QuitPersists(t *testing.T) {
	st := &memStore{st: trainer.NewState()}
	app, out := newApp(t, "q\n", &scriptedGateway{}, st)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.commits != 1 {
		t.Errorf("commits = %d, want 1", st.commits)
	}
	if !strings.Contains(out.String(), "ENGLISH TRAINER") {
		t.Error("header not rendered")
	}
}

func TestRun_ExerciseFlow(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`{"paragraph_fr": "Je vais au marché.", "notes": "présent"}`,
		`{"score": 8, "ideal_translation": "I am going to the market.", "main_error": "", "lesson": "", "improvement_suggestions": []}`,
	}}
	st := &memStore{st: trainer.NewState()}
	input := "\nI am going to the market.\n\nq\n"
	app, out := newApp(t, input, gw, st)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(st.st.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(st.st.Items))
	}
	if st.st.Progress.XP != 8 {
		t.Errorf("XP = %d, want 8", st.st.Progress.XP)
	}
	if !strings.Contains(out.String(), "Score: 8/10") {
		t.Error("feedback not rendered")
	}
	if !strings.Contains(out.String(), "+8 XP") {
		t.Error("XP gain not rendered")
	}
	if !strings.Contains(out.String(), "Nouveau succès débloqué: Premiers pas") {
		t.Error("first-exercise milestone not announced")
	}
}

func TestRun_InputExhaustedSavesAndExits(t *testing.T) {
	st := &memStore{st: trainer.NewState()}
	app, _ := newApp(t, "", &scriptedGateway{}, st)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.commits != 1 {
		t.Errorf("commits = %d, want 1", st.commits)
	}
}

func TestRun_LockedAbortsWhenDeclined(t *testing.T) {
	st := &memStore{st: trainer.NewState(), locked: true}
	app, _ := newApp(t, "n\n", &scriptedGateway{}, st)

	err := app.Run(context.Background())
	if !errors.Is(err, store.ErrLocked) {
		t.Errorf("expected ErrLocked, got %v", err)
	}
}

func TestRun_DailyChallengeAwardsBonusOnce(t *testing.T) {
	challenge := `{"challenge_type": "writing", "title": "Décrivez", "description": "d", "instructions": "i", "example": "e", "tips": []}`
	gw := &scriptedGateway{replies: []string{challenge}}
	st := &memStore{st: trainer.NewState()}
	// First pass completes the challenge, second pass only shows it.
	input := "d\no\nMy answer in English.\n\nd\n\nq\n"
	app, out := newApp(t, input, gw, st)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Writing challenges score 1.0: 10 base + 10 bonus.
	if st.st.Progress.XP != 20 {
		t.Errorf("XP = %d, want 20", st.st.Progress.XP)
	}
	if !strings.Contains(out.String(), "Défi déjà relevé") {
		t.Error("second visit should report the challenge as done")
	}
	if gw.calls != 1 {
		t.Errorf("gateway calls = %d, want 1 (challenge cached in state)", gw.calls)
	}
}

func TestRun_ExportKeepsArgumentCase(t *testing.T) {
	st := &memStore{st: trainer.NewState()}
	path := filepath.Join(t.TempDir(), "Vocabulaire.xlsx")
	// The verb may be typed in any case; the path must be taken verbatim.
	input := "Export " + path + "\n\nq\n"
	app, _ := newApp(t, input, &scriptedGateway{}, st)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export did not write to the given path: %v", err)
	}
}

func TestRun_ThemeSelection(t *testing.T) {
	st := &memStore{st: trainer.NewState()}
	input := "t\n2\nq\n"
	app, _ := newApp(t, input, &scriptedGateway{}, st)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.st.Theme != "Voyage & Aventure" {
		t.Errorf("theme = %q", st.st.Theme)
	}
}
