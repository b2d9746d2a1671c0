package report

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/psbfold/internal/model"
)

// Document is everything the renderers need for one run
type Document struct {
	Meta      model.RunMeta
	Portfolio *model.Portfolio
}

// structuredExport is the on-disk shape of consolidated.json
type structuredExport struct {
	Meta     model.RunMeta          `json:"meta"`
	Projects []*model.ProjectRecord `json:"projects"`
}

// WriteJSON writes the full structured export with run metadata and every
// record including indicators, measures and warnings
func WriteJSON(w io.Writer, doc Document) error {
	projects := doc.Portfolio.Projects
	if projects == nil {
		projects = []*model.ProjectRecord{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(structuredExport{
		Meta:     doc.Meta,
		Projects: projects,
	})
}

// ReadJSON parses a structured export written by WriteJSON
func ReadJSON(r io.Reader) (model.RunMeta, []*model.ProjectRecord, error) {
	var export structuredExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return model.RunMeta{}, nil, err
	}
	return export.Meta, export.Projects, nil
}
