// Package vocab holds the vocabulary store: word groups, words, distractor
// selection and bulk import.
package vocab

import "time"

// Group is a named cluster of topically related words. The name is the
// natural key: importing the same name twice resolves to one group.
type Group struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Word is a vocabulary entry owned by its group.
type Word struct {
	ID           int64      `db:"id" json:"id"`
	GroupID      int64      `db:"group_id" json:"group_id"`
	Word         string     `db:"word" json:"word"`
	PartOfSpeech string     `db:"part_of_speech" json:"part_of_speech"`
	MeaningEN    string     `db:"meaning_en" json:"meaning_en"`
	MeaningTH    string     `db:"meaning_th" json:"meaning_th"`
	Examples     StringList `db:"examples" json:"examples,omitempty"`
	Synonyms     StringList `db:"synonyms" json:"synonyms,omitempty"`
	Antonyms     StringList `db:"antonyms" json:"antonyms,omitempty"`
	WordForms    StringList `db:"word_forms" json:"word_forms,omitempty"`
	Difficulty   string     `db:"difficulty" json:"difficulty,omitempty"`
	Frequency    string     `db:"frequency" json:"frequency,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
