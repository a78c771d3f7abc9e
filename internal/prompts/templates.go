// Package prompts builds the system prompts sent to the model. Builders are
// kept short and directive, and always end with the JSON schema so it is the
// last thing the model sees.
package prompts

import (
	"fmt"
	"strings"
)

// Exercise builds the prompt for generating a French-to-English translation
// exercise. Recent phrases and the learner's common errors steer generation
// away from repetition and toward weak spots.
func Exercise(level, focus, theme string, avoidPhrases, commonErrors []string) string {
	var b strings.Builder
	b.WriteString("You are an expert English teacher creating translation exercises for French speakers learning English.\n\n")
	b.WriteString("TASK: Generate a French-to-English translation exercise.\n\n")
	b.WriteString("REQUIREMENTS:\n")
	b.WriteString("- Natural, conversational French, 1-2 sentences.\n")
	fmt.Fprintf(&b, "- Target level: %s.\n", level)
	if focus != "" {
		fmt.Fprintf(&b, "- The exercise must naturally test this grammar point: %s.\n", focus)
	}
	if theme != "" {
		fmt.Fprintf(&b, "- Theme: %s.\n", theme)
	}
	if len(commonErrors) > 0 {
		fmt.Fprintf(&b, "- The learner often makes these mistakes, design the exercise to practice them: %s.\n",
			strings.Join(commonErrors, "; "))
	}
	if len(avoidPhrases) > 0 {
		fmt.Fprintf(&b, "- Do NOT reuse any of these recent phrases: %s.\n",
			strings.Join(avoidPhrases, " | "))
	}
	b.WriteString("\nRespond with ONLY this JSON — no explanation, no markdown:\n")
	b.WriteString(`{"paragraph_fr": "French text to translate", "notes": "optional context"}`)
	return b.String()
}

// Evaluation builds the prompt for scoring a learner's translation.
func Evaluation(french, translation string) string {
	var b strings.Builder
	b.WriteString("You are a precise English translation evaluator for French learners of English.\n")
	b.WriteString("Be strict but fair; reward natural English. Focus on the single most important error.\n\n")
	fmt.Fprintf(&b, "FRENCH TEXT:\n%s\n\nLEARNER'S TRANSLATION:\n%s\n\n", french, translation)
	b.WriteString("Score from 0 (unusable) to 10 (native-quality). Feedback fields are written in French.\n\n")
	b.WriteString("Respond with ONLY this JSON — no explanation, no markdown:\n")
	b.WriteString(`{"score": 8, "ideal_translation": "...", "main_error": "...", "lesson": "...", "improvement_suggestions": ["...", "..."]}`)
	return b.String()
}

// Lesson builds the prompt for a full mini-lesson on a topic.
func Lesson(topic, level string) string {
	var b strings.Builder
	b.WriteString("You are an experienced English teacher writing for French speakers.\n")
	fmt.Fprintf(&b, "Write a compact, well-structured lesson in French about: %s.\n", topic)
	if level != "" {
		fmt.Fprintf(&b, "Pitch it at CEFR level %s.\n", level)
	}
	b.WriteString("Cover the rule, three worked examples with translations, and one common pitfall. Use Markdown.")
	return b.String()
}

// Conversation builds the prompt for free conversation practice.
func Conversation(topic, level string) string {
	var b strings.Builder
	b.WriteString("You are a friendly native English speaker having a casual conversation with a French learner.\n")
	fmt.Fprintf(&b, "Topic: %s. Learner level: %s.\n", topic, level)
	b.WriteString("Keep replies short (2-3 sentences), ask a follow-up question, and gently rephrase the learner's mistakes in passing rather than lecturing.")
	return b.String()
}

// VocabularySet builds the prompt for generating a themed vocabulary set.
func VocabularySet(theme, level string, count int) string {
	var b strings.Builder
	b.WriteString("You are building vocabulary flashcards for a French speaker learning English.\n")
	fmt.Fprintf(&b, "Generate %d useful English words or short phrases for the theme %q at level %s.\n\n", count, theme, level)
	b.WriteString("Respond with ONLY this JSON — no explanation, no markdown:\n")
	b.WriteString(`{"words": [{"word": "english word", "translation": "traduction française", "example": "short example sentence"}]}`)
	return b.String()
}

// DailyChallenge builds the prompt for generating the day's challenge.
func DailyChallenge(date string) string {
	var b strings.Builder
	b.WriteString("You design one short daily English challenge for a French learner.\n")
	fmt.Fprintf(&b, "Date: %s. Vary the type across days: translation, rewriting, vocabulary, idioms.\n\n", date)
	b.WriteString("Respond with ONLY this JSON — no explanation, no markdown:\n")
	b.WriteString(`{"challenge_type": "translation", "title": "...", "description": "...", "instructions": "...", "example": "...", "tips": ["...", "..."]}`)
	return b.String()
}

// ExampleSentence builds the prompt used when enriching imported vocabulary
// with an example sentence.
func ExampleSentence(word, translation string) string {
	return fmt.Sprintf(
		"Write one short, practical English sentence that naturally uses the word %q (French: %q). Respond with the sentence only.",
		word, translation)
}
