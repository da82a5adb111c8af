package resume

import (
	"fmt"
	"strings"
)

// Record is a résumé record (immutable value object).
// The search engine reads ID, Name, CVPath and RawText; Category and Position
// are passed through to results untouched.
type Record struct {
	id       int64
	name     string
	cvPath   string
	rawText  string
	category string
	position string
}

// New validates and creates a Record.
// ID must be positive; at least one of cvPath or rawText must be set.
func New(id int64, name, cvPath, rawText, category, position string) (Record, error) {
	if id <= 0 {
		return Record{}, fmt.Errorf("applicant ID must be positive, got %d", id)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, fmt.Errorf("name is required")
	}
	if cvPath == "" && rawText == "" {
		return Record{}, fmt.Errorf("either cv_path or raw_text is required")
	}
	return Record{
		id:       id,
		name:     name,
		cvPath:   cvPath,
		rawText:  rawText,
		category: category,
		position: position,
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(id int64, name, cvPath, rawText, category, position string) Record {
	return Record{
		id: id, name: name, cvPath: cvPath, rawText: rawText,
		category: category, position: position,
	}
}

// ID returns the stable applicant identifier.
func (r *Record) ID() int64 { return r.id }

// Name returns the applicant display name.
func (r *Record) Name() string { return r.name }

// CVPath returns the opaque document path understood by the document decoder.
func (r *Record) CVPath() string { return r.cvPath }

// RawText returns the pre-extracted plain text, or "" if none is stored.
func (r *Record) RawText() string { return r.rawText }

// HasRawText reports whether pre-extracted text is available.
func (r *Record) HasRawText() bool { return r.rawText != "" }

// Category returns the résumé category.
func (r *Record) Category() string { return r.category }

// Position returns the job position the applicant applied for.
func (r *Record) Position() string { return r.position }
