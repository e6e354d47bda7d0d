package practice

import (
	"fmt"
	"math/rand"

	"github.com/thanwa/flashvoc/internal/vocab"
)

// distractorCount is how many wrong choices a question asks for. Small
// groups may yield fewer.
const distractorCount = 3

const maxHintsPerKind = 2

// Choice is one answer option. The Thai meaning is dropped at level 3 and
// above. Correctness is never part of the payload.
type Choice struct {
	TextEN string `json:"text_en"`
	TextTH string `json:"text_th,omitempty"`
}

// ChoiceSet is a built question: shuffled choices, the position of the
// correct one, optional hints for new words, and whether the set fell
// back to placeholder distractors.
type ChoiceSet struct {
	Choices      []Choice
	CorrectIndex int
	Hints        []string
	Degraded     bool
}

// BuildChoices formats the correct meaning and the distractors for the
// given level and shuffles them. Without distractors it returns the
// placeholder fallback set instead.
func BuildChoices(rng *rand.Rand, word vocab.Word, level int, distractors []vocab.Word) ChoiceSet {
	if len(distractors) == 0 {
		return fallbackChoices(word, level)
	}

	choices := make([]Choice, 0, len(distractors)+1)
	choices = append(choices, formatChoice(word, level))
	for _, d := range distractors {
		choices = append(choices, formatChoice(d, level))
	}

	correct := 0
	rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
		if correct == i {
			correct = j
		} else if correct == j {
			correct = i
		}
	})

	return ChoiceSet{
		Choices:      choices,
		CorrectIndex: correct,
		Hints:        hints(word, level),
	}
}

// fallbackChoices builds the degraded set used when no distractors could
// be selected: the true meanings first, then numbered placeholders.
func fallbackChoices(word vocab.Word, level int) ChoiceSet {
	choices := []Choice{formatChoice(word, level)}
	for i := 1; i <= distractorCount; i++ {
		c := Choice{TextEN: fmt.Sprintf("Incorrect meaning %d", i)}
		if level < 3 {
			c.TextTH = fmt.Sprintf("ความหมายที่ไม่ถูกต้อง %d", i)
		}
		choices = append(choices, c)
	}
	return ChoiceSet{
		Choices:      choices,
		CorrectIndex: 0,
		Hints:        hints(word, level),
		Degraded:     true,
	}
}

func formatChoice(w vocab.Word, level int) Choice {
	c := Choice{TextEN: w.MeaningEN}
	if level < 3 {
		c.TextTH = w.MeaningTH
	}
	return c
}

// hints returns synonym and antonym hints for a word the user has never
// answered correctly, two of each at most.
func hints(word vocab.Word, level int) []string {
	if level != 0 {
		return nil
	}
	var out []string
	for i, s := range word.Synonyms {
		if i == maxHintsPerKind {
			break
		}
		out = append(out, "Synonym: "+s)
	}
	for i, a := range word.Antonyms {
		if i == maxHintsPerKind {
			break
		}
		out = append(out, "Antonym: "+a)
	}
	return out
}
