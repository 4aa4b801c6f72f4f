package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"policy-rag/internal/labels"
	"policy-rag/internal/models"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// DefaultWindowSize is the chunk window size in characters.
const DefaultWindowSize = 1000

// ProgressFunc observes corpus-scan progress. done counts documents fully
// processed out of total; filename is the document just finished.
type ProgressFunc func(done, total int, filename string)

var supportedExts = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
	".xlsx": true,
}

// ChunkCorpus scans dir for supported documents and splits each page's text
// into fixed-size windows tagged with the document's display label and the
// 0-based page index. A document that fails to read is recorded as skipped
// in the report and the scan continues. A missing corpus directory is
// created empty and yields an empty report.
func ChunkCorpus(dir string, resolver *labels.Resolver, windowSize int, progress ProgressFunc) (*models.BuildReport, error) {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	report := &models.BuildReport{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading corpus directory: %w", err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating corpus directory: %w", err)
		}
		return report, nil
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if supportedExts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	seen := map[string]bool{}
	for i, filename := range files {
		label := resolver.Resolve(filename)
		result := models.DocumentResult{Filename: filename, Label: label, Status: models.DocumentOK}

		pages, err := extractPages(filepath.Join(dir, filename))
		if err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("Skipping unreadable document")
			result.Status = models.DocumentSkipped
			result.Reason = err.Error()
			report.Documents = append(report.Documents, result)
			if progress != nil {
				progress(i+1, len(files), filename)
			}
			continue
		}

		result.Pages = len(pages)
		for pageNum, pageText := range pages {
			if strings.TrimSpace(pageText) == "" {
				continue
			}
			for _, window := range splitWindows(pageText, windowSize) {
				report.Chunks = append(report.Chunks, models.Chunk{
					Text:   window,
					Source: label,
					Page:   pageNum,
				})
				result.Chunks++
			}
		}
		if result.Chunks > 0 && !seen[label] {
			seen[label] = true
			report.Sources = append(report.Sources, label)
		}

		report.Documents = append(report.Documents, result)
		if progress != nil {
			progress(i+1, len(files), filename)
		}
	}

	return report, nil
}

// extractPages returns the raw text of each page of the document, indexed by
// 0-based page number. Formats without page boundaries yield a single page;
// spreadsheet sheets count as pages.
func extractPages(filePath string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return extractPDF(filePath)
	case ".docx":
		return extractDOCX(filePath)
	case ".xlsx":
		return extractXLSX(filePath)
	case ".txt":
		return extractText(filePath)
	case ".md":
		return extractMarkdown(filePath)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func extractPDF(filePath string) ([]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	pages := make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages[i-1] = pageText
	}
	return pages, nil
}

func extractDOCX(filePath string) ([]string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// DOCX carries no page boundaries; the whole body is page 0.
	return []string{r.Editable().GetContent()}, nil
}

func extractXLSX(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []string
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		var text strings.Builder
		text.WriteString("Sheet: " + sheetName + "\n")
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteString("\n")
		}
		pages = append(pages, text.String())
	}
	return pages, nil
}

func extractText(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return []string{string(data)}, nil
}

func extractMarkdown(filePath string) ([]string, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	root := goldmark.DefaultParser().Parse(gmtext.NewReader(src))
	var text strings.Builder
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			text.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				text.WriteByte('\n')
			}
		case *ast.Paragraph, *ast.Heading:
			if text.Len() > 0 {
				text.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return []string{text.String()}, nil
}

// splitWindows cuts text into consecutive windows of at most size runes.
// No overlap and no trimming: the windows concatenate back to the input.
func splitWindows(text string, size int) []string {
	runes := []rune(text)
	var windows []string
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		windows = append(windows, string(runes[start:end]))
	}
	return windows
}
