// Package report renders journal entries into a printable HTML report.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"slices"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/filex"
	"github.com/dmitrijs2005/recoveryvault/internal/grouping"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var tmpl = template.Must(template.New("report.html.tmpl").
	Funcs(template.FuncMap{
		"percent": func(level int) int { return level * 100 / journal.PainMax },
	}).
	ParseFS(templatesFS, "templates/report.html.tmpl"))

// Header is the report front matter.
type Header struct {
	Profile   journal.Profile
	Mode      journal.VaultMode
	Generated time.Time
}

type view struct {
	Header
	Entries []journal.Entry
	Pain    []grouping.PainPoint
}

// Render builds the report. entries are expected newest first, as fetched;
// the report lists them oldest first.
func Render(h Header, entries []journal.Entry) ([]byte, error) {
	chrono := slices.Clone(entries)
	slices.Reverse(chrono)

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, view{
		Header:  h,
		Entries: chrono,
		Pain:    grouping.PainSeries(entries),
	})
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName is the export file name for a report generated at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("recovery-report-%s.html", t.UTC().Format("20060102-150405"))
}

// Export renders the report into dir and returns the file path.
func Export(dir string, h Header, entries []journal.Entry) (string, error) {
	if h.Generated.IsZero() {
		h.Generated = time.Now()
	}

	out, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}

	b, err := Render(h, entries)
	if err != nil {
		return "", err
	}

	path := filepath.Join(out, FileName(h.Generated))
	if err := filex.WriteFileAtomic(path, b, 0o640); err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}
	return path, nil
}
