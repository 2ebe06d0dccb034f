// Package extractor turns uploaded document files into one plain-text string.
package extractor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
)

// File is one uploaded document held in memory.
type File struct {
	Name string
	Data []byte
}

// Extract concatenates the text of all files in upload order. A file that
// cannot be opened or has an unsupported extension is skipped with a warning;
// inside a readable PDF, a page that fails to yield text contributes the
// empty string and never aborts the document.
func Extract(files []File) string {
	var text strings.Builder
	for _, f := range files {
		content, err := extractOne(f)
		if err != nil {
			log.Warn().Err(err).Str("file", f.Name).Msg("Skipping unreadable document")
			continue
		}
		text.WriteString(content)
	}
	return text.String()
}

func extractOne(f File) (string, error) {
	ext := strings.ToLower(filepath.Ext(f.Name))
	switch ext {
	case ".pdf":
		return extractPDF(f)
	case ".txt", ".md":
		return string(f.Data), nil
	case ".docx":
		return extractDOCX(f)
	case ".xlsx":
		return extractXLSX(f)
	case ".ods":
		return extractODS(f)
	default:
		return "", fmt.Errorf("unsupported file format: %s", ext)
	}
}

func extractPDF(f File) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(f.Data), int64(len(f.Data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var text strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Debug().Err(err).Str("file", f.Name).Int("page", i).Msg("Page yielded no text")
			continue
		}
		text.WriteString(pageText)
	}
	return text.String(), nil
}

func extractDOCX(f File) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(f.Data), int64(len(f.Data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer r.Close()

	return r.Editable().GetContent(), nil
}

func extractXLSX(f File) (string, error) {
	file, err := xlsx.OpenBinary(f.Data)
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}

	var text strings.Builder
	for _, sheet := range file.Sheets {
		text.WriteString(sheet.Name + "\n")
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
	}
	return text.String(), nil
}

func extractODS(f File) (string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(f.Data))
	if err != nil {
		return "", fmt.Errorf("open ods: %w", err)
	}
	defer file.Close()

	var text strings.Builder
	for _, sheetName := range file.GetSheetList() {
		rows, err := file.GetRows(sheetName)
		if err != nil {
			continue
		}
		text.WriteString(sheetName + "\n")
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
	}
	return text.String(), nil
}
