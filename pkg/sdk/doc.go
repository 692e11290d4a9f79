// Package extsearch provides an embeddable Go client for full-text search over
// an external backend (Elasticsearch, Redis with RediSearch, or an in-process
// bleve index) that reports highlights as exact offsets of the original text.
//
// Backends return highlights as short marked-up excerpts. The client locates
// every excerpt in the stored document text and translates each emphasized
// span into half-open rune offsets [Begin, End) of that text.
//
//	client, _ := extsearch.New(ctx,
//	    extsearch.WithElastic("http://localhost:9200"),
//	    extsearch.WithIndex("docs"),
//	)
//	defer client.Close()
//
//	resp, _ := client.Search().Query(ctx, "quick fox", nil)
//	for _, r := range resp.Results {
//	    text, _ := client.Documents(r.Collection).Text(ctx, r.ID)
//	    for _, h := range r.Highlights {
//	        fmt.Println(string([]rune(text)[h.Begin:h.End]))
//	    }
//	}
//
// Problems with a single hit or fragment never fail a query; they are reported
// in SearchResponse.Diagnostics.
package extsearch
