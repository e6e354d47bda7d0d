package vocab

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// exampleSeparator splits multiple example sentences inside one tabular
// cell; the other list columns use plain commas.
const exampleSeparator = "<br>"

// ImportSummary reports the outcome of a bulk import run. A failed file is
// recorded and skipped; the rest of the batch continues.
type ImportSummary struct {
	FilesProcessed int
	FilesSkipped   int
	WordsImported  int
	Errors         []FileError
}

// FileError ties an import failure to the file that caused it.
type FileError struct {
	File string
	Err  error
}

// Importer loads vocabulary files into the store. It accepts structured
// JSON (groups with word lists), tabular CSV and tabular XLSX.
type Importer struct {
	repo   Repository
	logger logrus.FieldLogger
}

// NewImporter creates a new Importer.
func NewImporter(repo Repository, logger logrus.FieldLogger) *Importer {
	return &Importer{repo: repo, logger: logger}
}

type groupEntry struct {
	GroupName string      `json:"group_name"`
	WordList  []wordEntry `json:"word_list"`
}

type wordEntry struct {
	Word         string   `json:"word"`
	PartOfSpeech string   `json:"part_of_speech"`
	MeaningEN    string   `json:"meaning_en"`
	MeaningTH    string   `json:"meaning_th"`
	Examples     []string `json:"examples"`
	Synonyms     []string `json:"synonyms"`
	Antonyms     []string `json:"antonyms"`
	WordForms    []string `json:"word_forms"`
	Difficulty   string   `json:"difficulty"`
	Frequency    string   `json:"frequency"`
}

// ImportDir imports every .json, .csv and .xlsx file under dir.
func (im *Importer) ImportDir(ctx context.Context, dir string) (*ImportSummary, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.csv", "*.xlsx"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	summary := &ImportSummary{}
	for _, file := range files {
		words, err := im.ImportFile(ctx, file)
		if err != nil {
			im.logger.WithError(err).WithField("file", file).Error("skipping vocabulary file")
			summary.FilesSkipped++
			summary.Errors = append(summary.Errors, FileError{File: file, Err: err})
			continue
		}
		im.logger.WithField("file", file).WithField("words", words).Info("imported vocabulary file")
		summary.FilesProcessed++
		summary.WordsImported += words
	}
	return summary, nil
}

// ImportFile imports a single vocabulary file, returning the number of
// words created.
func (im *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	var (
		groups []groupEntry
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		groups, err = parseJSONFile(path)
	case ".csv":
		groups, err = parseCSVFile(path)
	case ".xlsx":
		groups, err = parseXLSXFile(path)
	default:
		return 0, fmt.Errorf("unsupported file type: %s", path)
	}
	if err != nil {
		return 0, err
	}

	created := 0
	for _, entry := range groups {
		group, err := im.repo.GetOrCreateGroup(ctx, entry.GroupName)
		if err != nil {
			return created, err
		}
		batch := make([]Word, 0, len(entry.WordList))
		for _, we := range entry.WordList {
			batch = append(batch, Word{
				GroupID:      group.ID,
				Word:         we.Word,
				PartOfSpeech: we.PartOfSpeech,
				MeaningEN:    we.MeaningEN,
				MeaningTH:    we.MeaningTH,
				Examples:     normalizeList(we.Examples),
				Synonyms:     normalizeList(we.Synonyms),
				Antonyms:     normalizeList(we.Antonyms),
				WordForms:    normalizeList(we.WordForms),
				Difficulty:   we.Difficulty,
				Frequency:    we.Frequency,
			})
		}
		if err := im.repo.CreateWords(ctx, batch); err != nil {
			return created, err
		}
		created += len(batch)
	}
	return created, nil
}

func parseJSONFile(path string) ([]groupEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var groups []groupEntry
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	for _, g := range groups {
		if g.GroupName == "" {
			return nil, fmt.Errorf("parse JSON: entry without group_name")
		}
	}
	return groups, nil
}

func parseCSVFile(path string) ([]groupEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	columns := indexColumns(header)
	if _, ok := columns["group_name"]; !ok {
		return nil, fmt.Errorf("CSV header missing group_name column")
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}
		rows = append(rows, row)
	}
	return groupTabularRows(columns, rows)
}

func parseXLSXFile(path string) ([]groupEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	columns := indexColumns(rows[0])
	if _, ok := columns["group_name"]; !ok {
		return nil, fmt.Errorf("sheet header missing group_name column")
	}
	return groupTabularRows(columns, rows[1:])
}

// groupTabularRows converts flat rows into group entries, keyed by the
// repeated group_name column. Group order follows first appearance.
func groupTabularRows(columns map[string]int, rows [][]string) ([]groupEntry, error) {
	var order []string
	byName := map[string]*groupEntry{}

	cell := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	for i, row := range rows {
		name := cell(row, "group_name")
		if name == "" {
			return nil, fmt.Errorf("row %d: empty group_name", i+2)
		}
		entry, ok := byName[name]
		if !ok {
			entry = &groupEntry{GroupName: name}
			byName[name] = entry
			order = append(order, name)
		}
		entry.WordList = append(entry.WordList, wordEntry{
			Word:         cell(row, "word"),
			PartOfSpeech: cell(row, "part_of_speech"),
			MeaningEN:    cell(row, "meaning_en"),
			MeaningTH:    cell(row, "meaning_th"),
			Examples:     splitList(cell(row, "example"), exampleSeparator),
			Synonyms:     splitList(cell(row, "synonyms"), ","),
			Antonyms:     splitList(cell(row, "antonyms"), ","),
			WordForms:    splitList(cell(row, "variations"), ","),
			Difficulty:   cell(row, "difficulty"),
			Frequency:    cell(row, "frequency"),
		})
	}

	groups := make([]groupEntry, 0, len(order))
	for _, name := range order {
		groups = append(groups, *byName[name])
	}
	return groups, nil
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns
}

func splitList(value, sep string) []string {
	if value == "" {
		return nil
	}
	return normalizeList(strings.Split(value, sep))
}

// normalizeList trims whitespace and drops empty entries, keeping order.
func normalizeList(values []string) StringList {
	var out StringList
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
