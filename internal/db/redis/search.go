package redis

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/extsearch/internal/db"
	"github.com/kailas-cloud/extsearch/internal/domain"
)

// summarySeparator joins SUMMARIZE fragments. It cannot occur in indexed text
// because RediSearch tokenizes on control characters.
const summarySeparator = "\x1e"

// SearchHighlighted runs a full-text query via FT.SEARCH with HIGHLIGHT and
// SUMMARIZE on the query field. The summary replaces the field value in the
// reply, so entries never carry the full text.
func (s *Store) SearchHighlighted(ctx context.Context, q *db.HighlightQuery) (*db.SearchResult, error) {
	args, err := buildSearchArgs(q)
	if err != nil {
		return nil, err
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, wrapErr(db.OpSearch, err)
	}

	res, err := parseSearchResult(raw, !q.Randomized)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	prefix := db.KeyPrefix(q.IndexName, q.ObjectType)
	alias := db.FieldAlias(q.Field)
	for i := range res.Entries {
		e := &res.Entries[i]
		e.ID = strings.TrimPrefix(e.ID, prefix)
		summary, ok := takeField(e.Source, alias, q.Field)
		if ok {
			e.Highlights = map[string][]string{q.Field: splitSummary(summary)}
		}
	}

	if q.Randomized {
		rand.Shuffle(len(res.Entries), func(i, j int) {
			res.Entries[i], res.Entries[j] = res.Entries[j], res.Entries[i]
		})
	}
	return res, nil
}

func buildSearchArgs(q *db.HighlightQuery) ([]string, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Field == "" {
		return nil, fmt.Errorf("field is required")
	}
	if strings.TrimSpace(q.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	alias := db.FieldAlias(q.Field)
	escaped := escapeQuery(q.Query)

	var queryStr string
	switch q.QueryType {
	case domain.QueryMatch:
		queryStr = fmt.Sprintf("@%s:(%s)", alias, escaped)
	default:
		queryStr = fmt.Sprintf(`@%s:"%s"`, alias, escaped)
	}

	args := []string{q.IndexName, queryStr}
	if !q.Randomized {
		args = append(args, "WITHSCORES")
	}

	args = append(args, "SUMMARIZE", "FIELDS", "1", alias)
	if q.Fragments > 0 {
		args = append(args, "FRAGS", strconv.Itoa(q.Fragments))
	}
	if q.FragmentSize > 0 {
		// LEN counts tokens, not characters.
		args = append(args, "LEN", strconv.Itoa(max(1, q.FragmentSize/6)))
	}
	args = append(args, "SEPARATOR", summarySeparator)

	if q.OpenTag != "" || q.CloseTag != "" {
		args = append(args, "HIGHLIGHT", "FIELDS", "1", alias, "TAGS", q.OpenTag, q.CloseTag)
	}

	args = append(args,
		"LIMIT", "0", strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)
	return args, nil
}

// --- Result parsing ---

// parseSearchResult reads [total, key1, (score1,) fields1, ...]; the stride
// depends on WITHSCORES.
func parseSearchResult(raw []rueidis.RedisMessage, withScores bool) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	stride := 2
	if withScores {
		stride = 3
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/stride)
	for i := 1; i+stride-1 < len(raw); i += stride {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		entry := db.SearchEntry{ID: key}
		if withScores {
			scoreStr, err := raw[i+1].ToString()
			if err != nil {
				continue
			}
			score, err := strconv.ParseFloat(scoreStr, 64)
			if err != nil {
				continue
			}
			entry.Score = score
			entry.HasScore = true
		}

		fields, err := raw[i+stride-1].ToArray()
		if err != nil {
			continue
		}
		entry.Source = parseFieldPairs(fields)

		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]any {
	m := make(map[string]any, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// takeField removes and returns the first of names present in source.
func takeField(source map[string]any, names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := source[n].(string); ok {
			for _, d := range names {
				delete(source, d)
			}
			return v, true
		}
	}
	return "", false
}

func splitSummary(summary string) []string {
	parts := strings.Split(summary, summarySeparator)
	frags := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			frags = append(frags, p)
		}
	}
	return frags
}

// --- Query helpers ---

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)
