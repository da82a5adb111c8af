package resume

import (
	"strconv"

	domresume "github.com/kailas-cloud/cvmatch/internal/domain/resume"
)

// Hash field names of a stored record.
const (
	fieldID       = "applicant_id"
	fieldName     = "name"
	fieldCVPath   = "cv_path"
	fieldRawText  = "raw_text"
	fieldCategory = "category"
	fieldPosition = "position"
)

// buildHashFields converts a record into a flat map for HSET. Empty optional
// fields are omitted.
func buildHashFields(rec *domresume.Record) map[string]string {
	m := map[string]string{
		fieldID:   strconv.FormatInt(rec.ID(), 10),
		fieldName: rec.Name(),
	}
	optional := map[string]string{
		fieldCVPath:   rec.CVPath(),
		fieldRawText:  rec.RawText(),
		fieldCategory: rec.Category(),
		fieldPosition: rec.Position(),
	}
	for k, v := range optional {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

// parseHashFields converts a stored hash back into a record. The id is taken
// from the key, not from the hash body.
func parseHashFields(id int64, m map[string]string) domresume.Record {
	return domresume.Reconstruct(
		id,
		m[fieldName],
		m[fieldCVPath],
		m[fieldRawText],
		m[fieldCategory],
		m[fieldPosition],
	)
}
