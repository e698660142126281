package io

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/nao1215/markdown"
	"github.com/williampepple1/year-checker/internal/config"
	"github.com/williampepple1/year-checker/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Headers are the report column titles
var Headers = []string{"ID", "URL", "Created", "Year", "Expected year", "Status", "Comment", "Screenshot"}

// StatusColors maps a status to its row fill color
var StatusColors = map[models.Status]string{
	models.StatusOK:       "C6EFCE", // green
	models.StatusFail:     "FFC7CE", // red
	models.StatusNotFound: "FFEB9C", // yellow
	models.StatusError:    "D9D9D9", // gray
}

// MaxColumnWidth caps auto-sized spreadsheet columns
const MaxColumnWidth = 70

// ResultWriter writes the verification report
type ResultWriter struct {
	Config *config.IOConfig
}

// NewResultWriter creates a new result writer
func NewResultWriter(config *config.IOConfig) *ResultWriter {
	return &ResultWriter{
		Config: config,
	}
}

// SaveToFile saves the results to the output file in the configured format
func (w *ResultWriter) SaveToFile(results []models.VerificationResult) error {
	if dir := filepath.Dir(w.Config.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	switch w.Config.OutputFormat {
	case config.FormatXLSX:
		return w.saveXLSX(results)

	case config.FormatMarkdown:
		return w.saveMarkdown(results)

	case config.FormatJSON:
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(w.Config.OutputFile, data, 0o644)

	default:
		return fmt.Errorf("unsupported output format: %s", w.Config.OutputFormat)
	}
}

// Row renders one result as report cells; an unrecognized year is an empty cell
func Row(r models.VerificationResult) []string {
	year := ""
	if r.HasYear() {
		year = strconv.Itoa(*r.Year)
	}
	return []string{
		r.Identifier,
		r.URL,
		r.RawDateText,
		year,
		strconv.Itoa(r.ExpectedYear),
		string(r.Status),
		r.Comment,
		r.ScreenshotPath,
	}
}

// MarkdownRow renders one result as markdown table cells, escaping pipes and
// flattening line breaks so every value stays in its column
func MarkdownRow(r models.VerificationResult) []string {
	cells := Row(r)
	for i, v := range cells {
		cells[i] = markdownCell.Replace(v)
	}
	return cells
}

var markdownCell = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func (w *ResultWriter) saveXLSX(results []models.VerificationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	widths := make([]int, len(Headers))

	setRow := func(rowNum int, values []string, numeric map[int]bool) error {
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
			if err != nil {
				return err
			}
			if width := runewidth.StringWidth(v); width > widths[i] {
				widths[i] = width
			}
			if v == "" {
				continue
			}
			if n, convErr := strconv.Atoi(v); convErr == nil && numeric[i] {
				err = f.SetCellValue(sheet, cell, n)
			} else {
				err = f.SetCellValue(sheet, cell, v)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := setRow(1, Headers, nil); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, bold); err != nil {
		return err
	}

	fills := map[models.Status]int{}
	for status, color := range StatusColors {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return err
		}
		fills[status] = id
	}

	// Year and Expected year are written as numbers
	numeric := map[int]bool{3: true, 4: true}
	for i, r := range results {
		rowNum := i + 2
		if err := setRow(rowNum, Row(r), numeric); err != nil {
			return err
		}

		style, ok := fills[r.Status]
		if !ok {
			style = fills[models.StatusError]
		}
		first, _ := excelize.CoordinatesToCellName(1, rowNum)
		last, _ := excelize.CoordinatesToCellName(len(Headers), rowNum)
		if err := f.SetCellStyle(sheet, first, last, style); err != nil {
			return err
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(min(width+2, MaxColumnWidth))); err != nil {
			return err
		}
	}

	return f.SaveAs(w.Config.OutputFile)
}

func (w *ResultWriter) saveMarkdown(results []models.VerificationResult) error {
	file, err := os.Create(w.Config.OutputFile)
	if err != nil {
		return err
	}
	defer file.Close()

	md := markdown.NewMarkdown(file)
	md.H1("Creation year check")
	md.PlainText("")

	summary := models.Summarize(results)
	summaryRows := make([][]string, 0, len(models.Statuses)+1)
	for _, s := range models.Statuses {
		summaryRows = append(summaryRows, []string{string(s), strconv.Itoa(summary[s])})
	}
	summaryRows = append(summaryRows, []string{"**Total**", "**" + strconv.Itoa(len(results)) + "**"})
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows:   summaryRows,
	})
	md.PlainText("")

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, MarkdownRow(r))
	}
	md.H2("Results")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: Headers,
		Rows:   rows,
	})

	return md.Build()
}
