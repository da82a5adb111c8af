// cvmatch ranks résumés by keyword occurrences using exact and fuzzy string matching.
package main

import (
	"os"

	"github.com/kailas-cloud/cvmatch/cmd/cvmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
