package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/ballethq/pkg/logger"
	"github.com/example/ballethq/pkg/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Column labels after normalization
const (
	ColumnQuestion = "question"
	ColumnOptionA  = "option_a"
	ColumnOptionB  = "option_b"
	ColumnOptionC  = "option_c"
	ColumnOptionD  = "option_d"
	ColumnAnswer   = "answer"
	ColumnImageURL = "image_url"
)

var requiredColumns = []string{
	ColumnQuestion, ColumnOptionA, ColumnOptionB, ColumnOptionC, ColumnOptionD, ColumnAnswer,
}

// ImportConfig defines where the questions of one quiz come from
type ImportConfig struct {
	FilePath  string // Path to the Excel or CSV file
	SheetName string // Name of the worksheet holding the quiz
}

// MissingSheetError is returned when the workbook has no worksheet with the requested name
type MissingSheetError struct {
	Sheet  string
	Source string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("sheet %q not found in %q: open the workbook and add the tab", e.Sheet, e.Source)
}

// ValidationError collects the data-integrity problems found while loading a sheet
type ValidationError struct {
	Sheet string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sheet %q has invalid questions: %v", e.Sheet, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Problems returns every individual problem, one per offending row or column
func (e *ValidationError) Problems() []error {
	return multierr.Errors(e.Err)
}

// LoadQuestions reads the questions of one sheet, in source order.
// Rows without a question are skipped.
func LoadQuestions(config ImportConfig) ([]models.Question, error) {
	var (
		rows [][]string
		err  error
	)

	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		rows, err = readCSV(config)
	} else {
		rows, err = readExcel(config)
	}
	if err != nil {
		return nil, err
	}

	return parseRows(config.SheetName, rows)
}

// readExcel returns the raw rows of the configured worksheet
func readExcel(config ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := ""
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, config.SheetName) {
			sheet = name
			break
		}
	}
	if sheet == "" {
		return nil, &MissingSheetError{Sheet: config.SheetName, Source: filepath.Base(config.FilePath)}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// readCSV treats a CSV file as a workbook with a single sheet named after the file
func readCSV(config ImportConfig) ([][]string, error) {
	stem := strings.TrimSuffix(filepath.Base(config.FilePath), filepath.Ext(config.FilePath))
	if !strings.EqualFold(stem, config.SheetName) {
		return nil, &MissingSheetError{Sheet: config.SheetName, Source: filepath.Base(config.FilePath)}
	}

	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseRows maps the header row onto question fields and validates every data row
func parseRows(sheet string, rows [][]string) ([]models.Question, error) {
	if len(rows) == 0 {
		return nil, &ValidationError{Sheet: sheet, Err: fmt.Errorf("sheet is empty")}
	}

	columns := make(map[string]int)
	for i, label := range rows[0] {
		key := NormalizeHeader(label)
		if _, dup := columns[key]; !dup && key != "" {
			columns[key] = i
		}
	}

	var errs error
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("missing column %q", name))
		}
	}
	if errs != nil {
		return nil, &ValidationError{Sheet: sheet, Err: errs}
	}

	questions := make([]models.Question, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		q, ok, err := processRow(row, columns)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("row %d: %w", rowNum, err))
			continue
		}
		if !ok {
			continue
		}
		if dup := duplicateOption(q); dup != "" {
			logger.Log.Warn("Question has duplicate option texts; answers are matched by text",
				zap.String("sheet", sheet), zap.Int("row", rowNum), zap.String("option", dup))
		}
		questions = append(questions, q)
	}

	if errs != nil {
		return nil, &ValidationError{Sheet: sheet, Err: errs}
	}
	return questions, nil
}

// processRow builds a question from a data row. ok is false for rows without a question.
func processRow(row []string, columns map[string]int) (q models.Question, ok bool, err error) {
	cell := func(name string) string {
		idx, exists := columns[name]
		if !exists || idx >= len(row) {
			return ""
		}
		return cleanCell(row[idx])
	}

	q = models.Question{
		Prompt:   cell(ColumnQuestion),
		OptionA:  cell(ColumnOptionA),
		OptionB:  cell(ColumnOptionB),
		OptionC:  cell(ColumnOptionC),
		OptionD:  cell(ColumnOptionD),
		Answer:   strings.ToLower(cell(ColumnAnswer)),
		ImageURL: cell(ColumnImageURL),
	}
	if q.Prompt == "" {
		return q, false, nil
	}

	var errs error
	for i, text := range q.Options() {
		if text == "" {
			errs = multierr.Append(errs, fmt.Errorf("option_%s is empty", models.Letters[i]))
		}
	}
	if _, valid := q.Option(q.Answer); !valid {
		errs = multierr.Append(errs, fmt.Errorf("answer %q is not one of a, b, c, d", q.Answer))
	}
	if errs != nil {
		return q, false, errs
	}
	return q, true, nil
}

// NormalizeHeader folds a column label to its canonical form: "Option-A " -> "option_a"
func NormalizeHeader(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.ReplaceAll(label, "-", "_")
	return strings.Join(strings.Fields(label), "_")
}

// cleanCell trims a cell and blanks the textual missing-value markers spreadsheets export
func cleanCell(value string) string {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "nan", "#n/a":
		return ""
	}
	return value
}

// duplicateOption returns an option text that appears more than once, ignoring case and spacing
func duplicateOption(q models.Question) string {
	seen := make(map[string]bool, 4)
	for _, text := range q.Options() {
		key := strings.Join(strings.Fields(strings.ToLower(text)), " ")
		if seen[key] {
			return text
		}
		seen[key] = true
	}
	return ""
}
