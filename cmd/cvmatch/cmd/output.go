package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/kailas-cloud/cvmatch/internal/domain/search/result"
)

// writeEnvelope prints a human-readable table. Hits finalized before a
// cancellation are still shown, below the error line.
func writeEnvelope(w io.Writer, env result.Envelope) error {
	algo := env.Algorithm()
	header := fmt.Sprintf("%s (%s)  scanned %d  in %.2f ms",
		algo.DisplayName(), algo, env.ScannedCount(), env.AlgorithmTimeMS())
	if th, ok := env.Threshold(); ok {
		header += fmt.Sprintf("  threshold %.2f", th)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if !env.OK() {
		if _, err := fmt.Fprintf(w, "error: %s\n", env.Error()); err != nil {
			return err
		}
	}

	hits := env.Results()
	if len(hits) == 0 {
		_, err := fmt.Fprintln(w, "no matches")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tID\tNAME\tTOTAL\tMATCHES\tCV")
	for i, h := range hits {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\t%s\n",
			i+1, h.ApplicantID(), h.Name(), h.TotalMatches(), formatTally(h.KeywordMatches()), h.CVPath())
	}
	return tw.Flush()
}

// formatTally renders matches as "key=n" pairs, highest count first.
func formatTally(t result.Tally) string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if t[keys[i]] != t[keys[j]] {
			return t[keys[i]] > t[keys[j]]
		}
		return keys[i] < keys[j]
	})

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, t[k])
	}
	return strings.Join(parts, ", ")
}
