// Package cli drives the interactive trainer session: one menu loop where
// every command runs as a single read-modify-write cycle against the state
// store, so two concurrent sessions can never interleave writes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/english-rpg/trainer/internal/domain/achievement"
	"github.com/english-rpg/trainer/internal/domain/item"
	"github.com/english-rpg/trainer/internal/domain/ledger"
	"github.com/english-rpg/trainer/internal/domain/progress"
	"github.com/english-rpg/trainer/internal/domain/trainer"
	"github.com/english-rpg/trainer/internal/importer"
	"github.com/english-rpg/trainer/internal/service"
	"github.com/english-rpg/trainer/internal/store"
	"github.com/english-rpg/trainer/internal/ui"
)

const (
	reviewSessionLimit = 5
	maxContextChars    = 4000
)

// Deps collects everything the app needs. All fields are required except
// Now, which defaults to time.Now.
type Deps struct {
	Console       *ui.Console
	Store         store.Store
	Exercises     *service.ExerciseService
	Lessons       *service.LessonService
	Conversations *service.ConversationService
	Vocabulary    *service.VocabularyService
	Challenges    *service.ChallengeService
	Importer      *importer.Importer
	Logger        *slog.Logger
	MaxParallel   int
	Now           func() time.Time
}

// App is the interactive session controller.
type App struct {
	console       *ui.Console
	store         store.Store
	exercises     *service.ExerciseService
	lessons       *service.LessonService
	conversations *service.ConversationService
	vocabulary    *service.VocabularyService
	challenges    *service.ChallengeService
	importer      *importer.Importer
	logger        *slog.Logger
	maxParallel   int
	now           func() time.Time
	running       bool
}

func New(d Deps) *App {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &App{
		console:       d.Console,
		store:         d.Store,
		exercises:     d.Exercises,
		lessons:       d.Lessons,
		conversations: d.Conversations,
		vocabulary:    d.Vocabulary,
		challenges:    d.Challenges,
		importer:      d.Importer,
		logger:        d.Logger,
		maxParallel:   d.MaxParallel,
		now:           now,
	}
}

// Run executes the menu loop until the user quits or input ends. Each
// iteration holds the state lock for the duration of one command, then
// persists whatever the command changed.
func (a *App) Run(ctx context.Context) error {
	a.running = true
	a.console.Info("English Trainer — tapez h pour l'aide")

	for a.running {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := a.store.Update(func(st *trainer.State) error {
			return a.step(ctx, st)
		})
		switch {
		case errors.Is(err, store.ErrLocked):
			if !a.console.Confirm("Une autre session est en cours. Réessayer?", true) {
				return err
			}
		case err != nil:
			return err
		}
	}

	a.console.Success("Données sauvegardées. À bientôt!")
	return nil
}

func (a *App) step(ctx context.Context, st *trainer.State) error {
	now := a.now()
	due := st.DueItems(now, 0)

	a.console.Header(st, len(due))
	command, err := a.console.Prompt("> ")
	if err != nil {
		a.running = false
		return nil
	}

	// The verb is case-insensitive; arguments (file paths) keep their case.
	fields := strings.Fields(command)
	var verb, arg string
	if len(fields) > 0 {
		verb = strings.ToLower(fields[0])
		arg = strings.Join(fields[1:], " ")
	}

	switch verb {
	case "q", "quit", "exit":
		a.running = false
	case "h", "help":
		a.console.Help(len(due), len(st.Notes()))
		a.pause()
	case "c":
		a.lessonSelection(st)
	case "t":
		a.themeSelection(st)
	case "e":
		a.interactiveLesson(ctx, st)
	case "n":
		a.notebookMenu(st)
	case "v":
		a.reviewSession(ctx, st, due)
	case "s":
		a.statistics(st, len(due))
	case "conv":
		a.conversation(ctx, st)
	case "vocab":
		a.vocabularySession(ctx, st)
	case "d":
		a.dailyChallenge(ctx, st)
	case "import":
		a.importSession(ctx, st, arg)
	case "export":
		a.exportSession(st, arg)
	default:
		a.exerciseSession(ctx, st)
	}
	return nil
}

func (a *App) pause() {
	_, _ = a.console.Prompt("Appuyez sur Entrée pour continuer...")
}

// ── Exercise ────────────────────────────────────────────────────────

func (a *App) exerciseSession(ctx context.Context, st *trainer.State) {
	a.console.Info("Génération de l'exercice...")
	ex := a.exercises.Generate(ctx, st)
	if ex.Fallback {
		a.console.Info("(serveur IA injoignable, exercice hors-ligne)")
	}
	st.AddRecentPhrase(ex.French)
	a.console.Exercise(ex.French, ex.Notes)

	asked := a.now()
	translation, err := a.console.Prompt("Votre traduction : ")
	if err != nil || translation == "" || translation == "q" {
		return
	}

	a.console.Info("Correction en cours...")
	ev := a.exercises.Evaluate(ctx, st, ex.French, translation)
	a.console.Feedback(ev)

	it := item.New(item.KindTranslation, ex.French, a.now())
	st.AddItem(it)
	a.applyOutcome(st, service.Outcome{
		ItemID:    it.ID,
		Score:     ev.Normalized(),
		At:        a.now(),
		Latency:   a.now().Sub(asked),
		Answer:    translation,
		Feedback:  ev.Lesson,
		MainError: ev.MainError,
	})
	a.pause()
}

func (a *App) applyOutcome(st *trainer.State, o service.Outcome) {
	res, err := service.ApplyOutcome(st, o)
	if err != nil {
		a.logger.Error("apply outcome", "item", o.ItemID, "error", err)
		a.console.Error("Erreur: " + err.Error())
		return
	}
	xp := res.Progress.XP + res.Progress.BonusXP
	a.console.Success(fmt.Sprintf("+%d XP", xp))
	if res.Progress.LeveledUp {
		a.console.Success("Niveau supérieur: " + res.Progress.Level.String())
	}
	a.announceAchievements(st)
}

// announceAchievements reports milestones reached since the last check.
func (a *App) announceAchievements(st *trainer.State) {
	for _, ach := range achievement.Check(st) {
		a.console.Success("🏆 Nouveau succès débloqué: " + ach.Name)
	}
}

// ── Reviews ─────────────────────────────────────────────────────────

func (a *App) reviewSession(ctx context.Context, st *trainer.State, due []string) {
	if len(due) == 0 {
		a.console.Info("Aucune révision en attente.")
		a.pause()
		return
	}
	if len(due) > reviewSessionLimit {
		due = due[:reviewSessionLimit]
	}

	for _, id := range due {
		e, err := st.Item(id)
		if err != nil {
			continue
		}

		var outcome *service.Outcome
		switch e.Item.Kind {
		case item.KindVocabulary:
			outcome = a.reviewVocabulary(e)
		default:
			outcome = a.reviewTranslation(ctx, st, e)
		}
		if outcome == nil {
			break
		}
		a.applyOutcome(st, *outcome)
	}
	a.pause()
}

func (a *App) reviewTranslation(ctx context.Context, st *trainer.State, e *trainer.Entry) *service.Outcome {
	a.console.Exercise(e.Item.Content, "RÉVISION")
	asked := a.now()
	translation, err := a.console.Prompt("Traduction : ")
	if err != nil || translation == "" || translation == "q" {
		return nil
	}

	a.console.Info("Correction...")
	ev := a.exercises.Evaluate(ctx, st, e.Item.Content, translation)
	a.console.Feedback(ev)

	return &service.Outcome{
		ItemID:    e.Item.ID,
		Score:     ev.Normalized(),
		At:        a.now(),
		Latency:   a.now().Sub(asked),
		Answer:    translation,
		Feedback:  ev.Lesson,
		MainError: ev.MainError,
	}
}

// reviewVocabulary grades word cards locally: the expected translation is
// already stored, no model round trip needed.
func (a *App) reviewVocabulary(e *trainer.Entry) *service.Outcome {
	a.console.Exercise(e.Item.Title, "VOCABULAIRE")
	asked := a.now()
	answer, err := a.console.Prompt("Traduction : ")
	if err != nil || answer == "" || answer == "q" {
		return nil
	}

	score := 0.2
	if strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(e.Item.Content)) {
		score = 1.0
		a.console.Success("Correct!")
	} else {
		a.console.Info("Réponse attendue: " + e.Item.Content)
		if e.Item.Example != "" {
			a.console.Info("Exemple: " + e.Item.Example)
		}
	}

	return &service.Outcome{
		ItemID:  e.Item.ID,
		Score:   score,
		At:      a.now(),
		Latency: a.now().Sub(asked),
		Answer:  answer,
	}
}

// ── Daily challenge ─────────────────────────────────────────────────

func (a *App) dailyChallenge(ctx context.Context, st *trainer.State) {
	now := a.now()
	ch := a.challenges.EnsureToday(ctx, st, now)
	a.console.Challenge(ch)

	if ch.Completed {
		a.console.Success("Défi déjà relevé aujourd'hui!")
		a.pause()
		return
	}
	if !a.console.Confirm("Voulez-vous relever ce défi?", true) {
		return
	}

	answer, err := a.console.Prompt("Votre réponse : ")
	if err != nil || answer == "" || answer == "q" {
		return
	}

	score := 1.0
	if ch.Type == "translation" {
		a.console.Info("Correction...")
		ev := a.exercises.Evaluate(ctx, st, ch.Example, answer)
		a.console.Feedback(ev)
		score = ev.Normalized()
	}

	st.CompleteChallenge(ch.Date, now)
	delta, err := st.Progress.Apply(progress.Outcome{
		Score:            score,
		At:               now,
		IsDailyChallenge: true,
		ChallengeID:      ch.ID,
	})
	if err != nil {
		a.console.Error("Erreur: " + err.Error())
		return
	}
	a.console.Success(fmt.Sprintf("Défi relevé! +%d XP", delta.XP+delta.BonusXP))
	a.announceAchievements(st)
	a.pause()
}

// ── Focus and theme selection ───────────────────────────────────────

func (a *App) lessonSelection(st *trainer.State) {
	i := 1
	for _, band := range curriculum {
		a.console.Info(band.band)
		for _, lesson := range band.lessons {
			marker := "  "
			if lesson == st.LessonFocus {
				marker = "➤ "
			}
			a.console.Info(fmt.Sprintf("  %s%2d. %s", marker, i, lesson))
			i++
		}
	}
	a.console.Info("   0. Désactiver le focus (mode général)")

	choice, err := a.console.Prompt("Choix # : ")
	if err != nil || choice == "" {
		return
	}
	if choice == "0" {
		st.LessonFocus = ""
		a.console.Success("Focus désactivé (mode général)")
		return
	}
	n, err := strconv.Atoi(choice)
	lessons := allLessons()
	if err != nil || n < 1 || n > len(lessons) {
		a.console.Error("Choix invalide")
		return
	}
	st.LessonFocus = lessons[n-1]
	a.console.Success("Focus: " + st.LessonFocus)
}

func (a *App) themeSelection(st *trainer.State) {
	for i, theme := range themes {
		a.console.Info(fmt.Sprintf("  %2d. %s", i+1, theme))
	}
	n := a.console.PromptNumber("Choix # : ", 1, len(themes), 0)
	if n == 0 {
		return
	}
	if n == 1 {
		st.Theme = ""
		a.console.Success("Thème: Aucun")
		return
	}
	st.Theme = themes[n-1]
	a.console.Success("Thème: " + st.Theme)
}

// ── Interactive lesson ──────────────────────────────────────────────

func (a *App) interactiveLesson(ctx context.Context, st *trainer.State) {
	topic := st.LessonFocus
	if topic == "" {
		var err error
		topic, err = a.console.Prompt("Sujet à expliquer : ")
		if err != nil || topic == "" {
			return
		}
	}

	a.console.Info("Génération du cours...")
	level := st.Progress.Level().String()
	content, err := a.lessons.Generate(ctx, topic, level, st.Settings.Model)
	if err != nil {
		a.console.Error("Erreur: " + err.Error())
		a.pause()
		return
	}
	a.console.Lesson("Cours: "+topic, content)

	if st.Settings.AutoSaveLessons && a.console.Confirm("Sauvegarder ce cours dans le cahier?", true) {
		title := a.console.PromptDefault("Titre du cours : ", "Cours: "+topic)
		tagLine, _ := a.console.Prompt("Tags (séparés par des espaces) : ")
		st.AddItem(item.NewNote(title, content, topic, strings.Fields(tagLine), a.now()))
		a.console.Success("Cours sauvegardé dans le cahier!")
		a.announceAchievements(st)
	}

	a.console.Info("Mode Q&A — posez vos questions (Entrée vide pour quitter)")
	transcript := "Leçon: " + topic + "\n" + content
	for {
		question, err := a.console.Prompt("Votre question ? ")
		if err != nil || question == "" || question == "q" {
			break
		}
		a.console.Info("Réflexion...")
		answer, err := a.lessons.Answer(ctx, question, tail(transcript, maxContextChars), st.Settings.Model)
		if err != nil {
			a.console.Error("Erreur: " + err.Error())
			continue
		}
		a.console.Lesson("Réponse", answer)
		transcript += "\nQ: " + question + "\nR: " + answer
	}
}

// ── Notebook ────────────────────────────────────────────────────────

func (a *App) notebookMenu(st *trainer.State) {
	for {
		notes := st.Notes()
		preview := notes
		if len(preview) > 10 {
			preview = preview[:10]
		}
		a.console.Notes(preview)
		a.console.Info("")
		a.console.Info("Cahier de cours")
		a.console.Info("  1. Voir toutes les entrées")
		a.console.Info("  2. Rechercher")
		a.console.Info("  3. Filtrer par sujet")
		a.console.Info("  4. Marquer/démarquer favori")
		a.console.Info("  5. Supprimer une entrée")
		a.console.Info("  0. Retour")

		choice, err := a.console.Prompt("Choix : ")
		if err != nil || choice == "0" {
			return
		}
		switch choice {
		case "1":
			a.showNote(st, notes)
		case "2":
			a.searchNotebook(st)
		case "3":
			a.filterNotebook(st, notes)
		case "4":
			a.toggleNoteFavorite(st, notes)
		case "5":
			a.deleteNote(st, notes)
		}
	}
}

func (a *App) showNote(st *trainer.State, notes []*item.Item) {
	a.console.Notes(notes)
	n := a.console.PromptNumber("Entrée à ouvrir (0 pour revenir) : ", 1, len(notes), 0)
	if n == 0 {
		return
	}
	note := notes[n-1]
	a.console.Lesson(note.Title, note.Content)
	a.pause()
}

func (a *App) searchNotebook(st *trainer.State) {
	query, err := a.console.Prompt("Recherche : ")
	if err != nil || query == "" {
		return
	}
	a.console.Notes(st.SearchNotes(query))
	a.pause()
}

func (a *App) filterNotebook(st *trainer.State, notes []*item.Item) {
	seen := make(map[string]bool)
	var topics []string
	for _, n := range notes {
		if n.Topic != "" && !seen[n.Topic] {
			seen[n.Topic] = true
			topics = append(topics, n.Topic)
		}
	}
	sort.Strings(topics)
	if len(topics) == 0 {
		a.console.Info("Aucun sujet disponible")
		return
	}
	for i, t := range topics {
		a.console.Info(fmt.Sprintf("  %d. %s", i+1, t))
	}
	n := a.console.PromptNumber("Choix : ", 1, len(topics), 0)
	if n == 0 {
		return
	}
	var filtered []*item.Item
	for _, note := range notes {
		if note.Topic == topics[n-1] {
			filtered = append(filtered, note)
		}
	}
	a.console.Notes(filtered)
	a.pause()
}

func (a *App) toggleNoteFavorite(st *trainer.State, notes []*item.Item) {
	if len(notes) == 0 {
		a.console.Info("Cahier vide")
		return
	}
	n := a.console.PromptNumber("Numéro de l'entrée : ", 1, len(notes), 0)
	if n == 0 {
		return
	}
	if err := st.ToggleFavorite(notes[n-1].ID); err != nil {
		a.console.Error("Entrée non trouvée")
		return
	}
	a.console.Success("Statut favori modifié!")
}

func (a *App) deleteNote(st *trainer.State, notes []*item.Item) {
	if len(notes) == 0 {
		a.console.Info("Cahier vide")
		return
	}
	n := a.console.PromptNumber("Numéro de l'entrée à supprimer : ", 1, len(notes), 0)
	if n == 0 || !a.console.Confirm("Confirmer la suppression?", false) {
		return
	}
	if err := st.RemoveItem(notes[n-1].ID); err != nil {
		a.console.Error("Entrée non trouvée")
		return
	}
	a.console.Success("Entrée supprimée!")
}

// ── Statistics ──────────────────────────────────────────────────────

func (a *App) statistics(st *trainer.State, due int) {
	a.console.Stats(st, due)
	a.console.ProgressChart(recentAttempts(st, 20))
	a.pause()
}

// recentAttempts collects the newest attempts across all items, oldest
// first.
func recentAttempts(st *trainer.State, limit int) []ledger.Attempt {
	var all []ledger.Attempt
	for _, e := range st.Items {
		all = append(all, e.Ledger.History()...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].At.Before(all[j].At) })
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all
}

// ── Conversation ────────────────────────────────────────────────────

func (a *App) conversation(ctx context.Context, st *trainer.State) {
	topic, err := a.console.Prompt("Sujet de conversation : ")
	if err != nil || topic == "" {
		return
	}

	a.console.Info("Démarrage de la conversation...")
	level := st.Progress.Level().String()
	opening, err := a.conversations.Start(ctx, topic, level, st.Settings.Model)
	if err != nil {
		a.console.Error("Erreur: " + err.Error())
		a.pause()
		return
	}
	a.console.Lesson("Conversation", opening)

	transcript := []string{"Partner: " + opening}
	for {
		message, err := a.console.Prompt("Vous : ")
		if err != nil || message == "" || message == "q" {
			break
		}
		reply, err := a.conversations.Continue(ctx, topic, level, st.Settings.Model, message, transcript)
		if err != nil {
			a.console.Error("Erreur: " + err.Error())
			break
		}
		a.console.Lesson("Partenaire", reply)
		transcript = append(transcript, "You: "+message, "Partner: "+reply)
	}
}

// ── Vocabulary ──────────────────────────────────────────────────────

func (a *App) vocabularySession(ctx context.Context, st *trainer.State) {
	theme, err := a.console.Prompt("Thème vocabulaire : ")
	if err != nil || theme == "" {
		return
	}
	count := a.console.PromptNumber("Nombre de mots [10] : ", 5, 20, 10)

	a.console.Info("Génération du vocabulaire...")
	level := st.Progress.Level().String()
	words, err := a.vocabulary.GenerateSet(ctx, theme, level, st.Settings.Model, count)
	if err != nil {
		a.console.Error("Erreur: " + err.Error())
		a.pause()
		return
	}
	a.console.Vocabulary(theme, words)

	if a.console.Confirm("Ajouter ces mots au programme de révision?", true) {
		now := a.now()
		for _, w := range words {
			st.AddItem(item.NewVocabulary(w.Word, w.Translation, theme, w.Example, now))
		}
		a.console.Success(fmt.Sprintf("%d mots ajoutés aux révisions", len(words)))
	}
	a.pause()
}

// ── Import ──────────────────────────────────────────────────────────

func (a *App) importSession(ctx context.Context, st *trainer.State, path string) {
	if path == "" {
		var err error
		path, err = a.console.Prompt("Fichier à importer (.xlsx ou .csv) : ")
		if err != nil || path == "" {
			return
		}
	}

	cfg := importer.DefaultConfig(path)
	cfg.MaxParallel = a.maxParallel
	cfg.Model = st.Settings.Model
	cfg.Enrich = a.console.Confirm("Générer des phrases d'exemple manquantes?", false)

	a.console.Info("Import en cours...")
	res, err := a.importer.ImportFile(ctx, st, cfg, a.now())
	if err != nil {
		a.console.Error("Erreur: " + err.Error())
		a.pause()
		return
	}

	a.console.Success(fmt.Sprintf("Import terminé: %d créés, %d mis à jour, %d ignorés",
		res.Created, res.Updated, res.Skipped))
	for _, e := range res.Errors {
		a.console.Error(e)
	}
	a.pause()
}

func (a *App) exportSession(st *trainer.State, path string) {
	if path == "" {
		path = a.console.PromptDefault("Fichier de destination : ", "vocabulaire.xlsx")
	}

	n, err := a.importer.ExportFile(st, path)
	if err != nil {
		a.console.Error("Erreur: " + err.Error())
		a.pause()
		return
	}
	a.console.Success(fmt.Sprintf("%d mots exportés vers %s", n, path))
	a.pause()
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
