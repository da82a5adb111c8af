package search

import (
	"context"

	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
)

// RecordProvider returns the résumé corpus for one query.
type RecordProvider interface {
	List(ctx context.Context) ([]resume.Record, error)
	Get(ctx context.Context, id int64) (resume.Record, error)
}

// TextSource resolves the plain text of a record, original casing preserved.
type TextSource interface {
	Text(ctx context.Context, rec resume.Record) (string, error)
}
