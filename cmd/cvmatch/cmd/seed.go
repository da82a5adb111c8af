package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load résumé records from a YAML file into the configured store",
	Long: `Loads records of the form

  records:
    - applicant_id: 1        # optional, allocated when omitted
      name: Ada Lovelace
      cv_path: ada.pdf       # relative to extract.base_dir
      raw_text: ""           # used instead of the document when set
      category: Engineering
      position: Analyst

Existing records with the same applicant_id are replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

// seedFile is the on-disk seed format.
type seedFile struct {
	Records []seedRecord `yaml:"records"`
}

type seedRecord struct {
	ApplicantID int64  `yaml:"applicant_id"`
	Name        string `yaml:"name"`
	CVPath      string `yaml:"cv_path"`
	RawText     string `yaml:"raw_text"`
	Category    string `yaml:"category"`
	Position    string `yaml:"position"`
}

// recordWriter is the subset of a record store that seeding needs.
type recordWriter interface {
	Put(ctx context.Context, rec *resume.Record) (bool, error)
	NextID(ctx context.Context) (int64, error)
}

// seedStats reports what a seed run changed.
type seedStats struct {
	Created  int
	Replaced int
}

func runSeed(cmd *cobra.Command, args []string) error {
	recs, err := loadSeedFile(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	st, err := seedRecords(cmd.Context(), a.records, recs)
	if err != nil {
		return err
	}

	a.logger.Info("Seed complete",
		zap.String("file", args[0]),
		zap.Int("created", st.Created),
		zap.Int("replaced", st.Replaced),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records (%d new, %d replaced)\n",
		st.Created+st.Replaced, st.Created, st.Replaced)
	return nil
}

func loadSeedFile(path string) ([]seedRecord, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if len(f.Records) == 0 {
		return nil, fmt.Errorf("seed file %s has no records", path)
	}
	return f.Records, nil
}

// seedRecords validates every record before writing any, so a bad entry
// leaves the store untouched. Records without an id get one from the store.
func seedRecords(ctx context.Context, w recordWriter, recs []seedRecord) (seedStats, error) {
	for i, r := range recs {
		id := r.ApplicantID
		if id == 0 {
			id = 1 // placeholder, real id allocated on write
		}
		if _, err := resume.New(id, r.Name, r.CVPath, r.RawText, r.Category, r.Position); err != nil {
			return seedStats{}, fmt.Errorf("record %d: %w", i+1, err)
		}
	}

	var st seedStats
	for i, r := range recs {
		id := r.ApplicantID
		if id == 0 {
			next, err := w.NextID(ctx)
			if err != nil {
				return st, fmt.Errorf("allocate id for record %d: %w", i+1, err)
			}
			id = next
		}

		rec, err := resume.New(id, r.Name, r.CVPath, r.RawText, r.Category, r.Position)
		if err != nil {
			return st, fmt.Errorf("record %d: %w", i+1, err)
		}
		created, err := w.Put(ctx, &rec)
		if err != nil {
			return st, fmt.Errorf("write record %d: %w", i+1, err)
		}
		if created {
			st.Created++
		} else {
			st.Replaced++
		}
	}
	return st, nil
}
