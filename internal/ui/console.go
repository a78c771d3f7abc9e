// Package ui renders the trainer's console screens and reads user input.
// Plain text only, no escape-code dependency, so output stays readable in
// pipes and logs.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/english-rpg/trainer/internal/domain/achievement"
	"github.com/english-rpg/trainer/internal/domain/item"
	"github.com/english-rpg/trainer/internal/domain/ledger"
	"github.com/english-rpg/trainer/internal/domain/trainer"
	"github.com/english-rpg/trainer/internal/service"
)

const rule = "──────────────────────────────────────────────────"

// Console reads commands from in and renders screens to out.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Prompt prints the label and reads one trimmed line. Returns io.EOF when
// input is exhausted.
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

// PromptDefault is Prompt with a fallback value for an empty answer.
func (c *Console) PromptDefault(label, def string) string {
	answer, err := c.Prompt(fmt.Sprintf("%s[%s] ", label, def))
	if err != nil || answer == "" {
		return def
	}
	return answer
}

// PromptNumber reads an integer in [min, max]; empty input returns def.
func (c *Console) PromptNumber(label string, min, max, def int) int {
	answer, err := c.Prompt(label)
	if err != nil || answer == "" {
		return def
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < min || n > max {
		return def
	}
	return n
}

// Confirm asks a yes/no question.
func (c *Console) Confirm(label string, def bool) bool {
	hint := "o/N"
	if def {
		hint = "O/n"
	}
	answer, err := c.Prompt(fmt.Sprintf("%s (%s) ", label, hint))
	if err != nil || answer == "" {
		return def
	}
	switch strings.ToLower(answer) {
	case "o", "oui", "y", "yes":
		return true
	default:
		return false
	}
}

func (c *Console) Info(msg string)    { fmt.Fprintln(c.out, msg) }
func (c *Console) Success(msg string) { fmt.Fprintln(c.out, "✓ "+msg) }
func (c *Console) Error(msg string)   { fmt.Fprintln(c.out, "✗ "+msg) }

// Header shows the two-line progress banner above the main menu.
func (c *Console) Header(st *trainer.State, due int) {
	focus := st.LessonFocus
	if focus == "" {
		focus = "Général"
	}
	theme := st.Theme
	if theme == "" {
		theme = "Aucun"
	}

	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "ENGLISH TRAINER • %s\n", st.Progress.Level())
	fmt.Fprintf(c.out, "%s XP: %d • Focus: %s • Thème: %s",
		progressBar(st.Progress.ProgressInLevel()), st.Progress.XP, focus, theme)
	if st.Progress.Streak > 0 {
		fmt.Fprintf(c.out, " • Série: %d j", st.Progress.Streak)
	}
	if due > 0 {
		fmt.Fprintf(c.out, " • Révisions: %d", due)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, rule)
}

// Help lists every command. The main loop stays minimal; this only shows on
// demand.
func (c *Console) Help(due, notes int) {
	fmt.Fprintln(c.out, "Commandes:")
	fmt.Fprintln(c.out, "  ⏎       nouvel exercice")
	fmt.Fprintln(c.out, "  d       défi quotidien")
	fmt.Fprintln(c.out, "  c       choisir une leçon")
	fmt.Fprintln(c.out, "  t       choisir un thème")
	fmt.Fprintln(c.out, "  e       cours interactif")
	if due > 0 {
		fmt.Fprintf(c.out, "  v       révisions (%d)\n", due)
	}
	if notes > 0 {
		fmt.Fprintf(c.out, "  n       cahier de cours (%d)\n", notes)
	}
	fmt.Fprintln(c.out, "  s       statistiques")
	fmt.Fprintln(c.out, "  conv    conversation")
	fmt.Fprintln(c.out, "  vocab   vocabulaire")
	fmt.Fprintln(c.out, "  import  importer un fichier de vocabulaire")
	fmt.Fprintln(c.out, "  export  exporter le vocabulaire en xlsx")
	fmt.Fprintln(c.out, "  h       aide")
	fmt.Fprintln(c.out, "  q       quitter")
}

// Exercise shows the text to translate.
func (c *Console) Exercise(french, notes string) {
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out, french)
	if notes != "" {
		fmt.Fprintf(c.out, "(%s)\n", notes)
	}
	fmt.Fprintln(c.out, rule)
}

// Feedback renders a scored evaluation.
func (c *Console) Feedback(ev service.Evaluation) {
	var verdict string
	switch {
	case ev.Score >= 8:
		verdict = "Excellent!"
	case ev.Score >= 6:
		verdict = "Bien!"
	default:
		verdict = "Continuez à pratiquer!"
	}
	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "%s Score: %d/10\n", verdict, ev.Score)
	if ev.IdealTranslation != "" {
		fmt.Fprintf(c.out, "Traduction idéale: %s\n", ev.IdealTranslation)
	}
	if ev.MainError != "" {
		fmt.Fprintf(c.out, "Point d'amélioration: %s\n", ev.MainError)
	}
	if ev.Lesson != "" {
		fmt.Fprintf(c.out, "Astuce: %s\n", ev.Lesson)
	}
	for _, s := range ev.Suggestions {
		fmt.Fprintf(c.out, "  • %s\n", s)
	}
	fmt.Fprintln(c.out, rule)
}

// Lesson prints long-form generated content under a title.
func (c *Console) Lesson(title, content string) {
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out, title)
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out, content)
}

// Notes lists notebook entries, numbered for selection.
func (c *Console) Notes(notes []*item.Item) {
	if len(notes) == 0 {
		fmt.Fprintln(c.out, "Cahier vide.")
		return
	}
	for i, n := range notes {
		fav := " "
		if n.Favorite {
			fav = "★"
		}
		fmt.Fprintf(c.out, "%2d. %s %s", i+1, fav, n.Title)
		if n.Topic != "" {
			fmt.Fprintf(c.out, " (%s)", n.Topic)
		}
		if len(n.Tags) > 0 {
			fmt.Fprintf(c.out, " [%s]", strings.Join(n.Tags, ", "))
		}
		fmt.Fprintln(c.out)
	}
}

// Challenge renders the daily challenge card.
func (c *Console) Challenge(ch *trainer.Challenge) {
	status := "EN COURS"
	if ch.Completed {
		status = "COMPLÉTÉ"
	}
	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "Défi quotidien • %s (%s)\n", ch.Title, status)
	fmt.Fprintln(c.out, ch.Description)
	fmt.Fprintf(c.out, "Instructions: %s\n", ch.Instructions)
	fmt.Fprintf(c.out, "Exemple: %s\n", ch.Example)
	for _, tip := range ch.Tips {
		fmt.Fprintf(c.out, "  • %s\n", tip)
	}
	fmt.Fprintln(c.out, rule)
}

// Vocabulary prints a generated word set.
func (c *Console) Vocabulary(theme string, words []service.VocabWord) {
	fmt.Fprintf(c.out, "Vocabulaire: %s\n", theme)
	for _, w := range words {
		fmt.Fprintf(c.out, "  %-20s %s\n", w.Word, w.Translation)
		if w.Example != "" {
			fmt.Fprintf(c.out, "  %20s %s\n", "", w.Example)
		}
	}
}

// Stats renders the statistics screen.
func (c *Console) Stats(st *trainer.State, due int) {
	total := 0
	for range st.Items {
		total++
	}
	completed := 0
	for _, ch := range st.Challenges {
		if ch.Completed {
			completed++
		}
	}

	fmt.Fprintln(c.out, "Statistiques")
	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "  Niveau:               %s\n", st.Progress.Level())
	fmt.Fprintf(c.out, "  XP total:             %d\n", st.Progress.XP)
	fmt.Fprintf(c.out, "  Exercices complétés:  %d\n", st.Progress.TotalExercises)
	fmt.Fprintf(c.out, "  Scores parfaits:      %d\n", st.Progress.PerfectAttempts)
	fmt.Fprintf(c.out, "  Série:                %d j\n", st.Progress.Streak)
	fmt.Fprintf(c.out, "  Révisions en attente: %d/%d\n", due, total)
	fmt.Fprintf(c.out, "  Défis quotidiens:     %d/%d\n", completed, len(st.Challenges))
	fmt.Fprintf(c.out, "  Succès:               %d/%d\n", len(st.Achievements), achievement.Total())

	for _, name := range st.Achievements {
		fmt.Fprintf(c.out, "    🏆 %s\n", name)
	}

	if errs := st.CommonErrors(5); len(errs) > 0 {
		fmt.Fprintln(c.out, "  Erreurs fréquentes:")
		for _, e := range errs {
			fmt.Fprintf(c.out, "    • %s\n", e)
		}
	}
}

// ProgressChart prints one marker per recent attempt.
func (c *Console) ProgressChart(attempts []ledger.Attempt) {
	if len(attempts) == 0 {
		return
	}
	var b strings.Builder
	for _, a := range attempts {
		switch {
		case a.Score >= 0.8:
			b.WriteString("●")
		case a.Score >= 0.6:
			b.WriteString("◐")
		default:
			b.WriteString("○")
		}
	}
	fmt.Fprintln(c.out, "Progression récente:")
	fmt.Fprintf(c.out, "  %s\n", b.String())
	fmt.Fprintln(c.out, "  ● 8-10  ◐ 6-7  ○ 0-5")
}

func progressBar(progress float64) string {
	const width = 20
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * width)
	return fmt.Sprintf("[%s%s] %d%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		int(progress*100))
}
