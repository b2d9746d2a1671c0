package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Output file names inside the target directory
const (
	JSONFile     = "consolidated.json"
	CSVFile      = "consolidated.csv"
	MarkdownFile = "quality_report.md"
)

// Artifacts holds the paths of the rendered outputs
type Artifacts struct {
	JSON     string
	CSV      string
	Markdown string
}

// Renderer writes the three consolidation artifacts of one run
type Renderer struct {
	dir string
}

// NewRenderer creates a renderer writing into dir
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Render writes the structured export, the flattened export and the
// narrative report. Writes are not transactional: a failure can leave
// earlier artifacts in place.
func (r *Renderer) Render(doc Document) (Artifacts, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return Artifacts{}, fmt.Errorf("create output directory: %w", err)
	}

	out := Artifacts{
		JSON:     filepath.Join(r.dir, JSONFile),
		CSV:      filepath.Join(r.dir, CSVFile),
		Markdown: filepath.Join(r.dir, MarkdownFile),
	}

	if err := writeFile(out.JSON, doc, WriteJSON); err != nil {
		return out, fmt.Errorf("render JSON: %w", err)
	}
	if err := writeFile(out.CSV, doc, WriteCSV); err != nil {
		return out, fmt.Errorf("render CSV: %w", err)
	}
	if err := writeFile(out.Markdown, doc, WriteMarkdown); err != nil {
		return out, fmt.Errorf("render markdown: %w", err)
	}

	return out, nil
}

func writeFile(path string, doc Document, write func(io.Writer, Document) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return write(f, doc)
}
