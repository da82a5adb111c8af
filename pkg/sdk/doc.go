// Package cvmatch embeds the résumé keyword search engine in a Go program.
//
// Records come from Valkey/Redis hashes, an ATS SQLite database, or an
// in-memory set. Plain text is taken from a record's raw text or extracted
// from its PDF, HTML or text document, then cached for the life of the client.
//
//	client, _ := cvmatch.New(ctx,
//	    cvmatch.WithSQLite("ats.db"),
//	    cvmatch.WithDocumentDir("/srv/cv"),
//	)
//	defer client.Close()
//
//	res, _ := client.Search(ctx, "python, kubernetes", cvmatch.AC, 10)
//	for _, h := range res.Hits {
//	    fmt.Println(h.Name, h.TotalMatches)
//	}
//
// Fuzzy matching takes a similarity threshold inside the query:
//
//	res, _ = client.Search(ctx, "pyhton|threshold=0.8", cvmatch.LD, 10)
package cvmatch
