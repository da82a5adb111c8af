package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/cvmatch/internal/domain/search/algorithm"
	chiTransport "github.com/kailas-cloud/cvmatch/internal/transport/chi"
)

var (
	searchAlgorithm string
	searchTop       int
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one keyword query against the configured record store",
	Long: `Runs one query and prints the ranked résumés.

Keywords are separated by commas. For the LD algorithm an optional
"|threshold=<0..1>" suffix sets the similarity threshold (default 0.7).

  cvmatch search "python, sql" --algorithm AC --top 5
  cvmatch search "pyton|threshold=0.8" --algorithm LD --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchAlgorithm, "algorithm", "a", "",
		"KMP, BM, AC or LD (long names accepted); defaults to search.default_algorithm")
	searchCmd.Flags().IntVarP(&searchTop, "top", "n", 0, "number of results; defaults to search.default_top_n")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the result envelope as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	name := searchAlgorithm
	if name == "" {
		name = a.cfg.Search.DefaultAlgorithm
	}
	algo, ok := algorithm.Parse(name)
	if !ok {
		return fmt.Errorf("unknown algorithm %q (want one of %s)", name, tagList())
	}

	topN := a.cfg.Search.DefaultTopN
	if cmd.Flags().Changed("top") {
		topN = searchTop
	}

	env := a.search.Run(ctx, args[0], algo, topN)

	out := cmd.OutOrStdout()
	if searchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(chiTransport.NewEnvelopeResponse(env)); err != nil {
			return fmt.Errorf("encode envelope: %w", err)
		}
	} else if err := writeEnvelope(out, env); err != nil {
		return err
	}

	if !env.OK() {
		return fmt.Errorf("query failed: %s", env.Error())
	}
	return nil
}

func tagList() string {
	tags := make([]string, len(algorithm.All))
	for i, a := range algorithm.All {
		tags[i] = string(a)
	}
	return strings.Join(tags, ", ")
}
