package tabular

import (
	"fmt"
	"strings"
)

// Field is one canonical column of a target schema. Aliases are tried in
// priority order; Substrings is a fallback for sources that rename columns
// freely, where a header qualifies when its normalized form contains every
// token of any one entry.
type Field struct {
	Name       string
	Required   bool
	Aliases    []string
	Substrings [][]string
}

// Schema is the target shape an uploaded table is normalized onto.
type Schema struct {
	Name   string
	Fields []Field
}

// SchemaMismatchError reports required canonical fields that no raw header
// satisfied. The whole file is rejected; nothing is partially committed.
type SchemaMismatchError struct {
	Schema  string
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema %s: missing required fields: %s", e.Schema, strings.Join(e.Missing, ", "))
}

// normalizeHeader case-folds, collapses whitespace and strips punctuation so
// "Lead-ID ", "lead id" and "LeadID" all compare equal.
func normalizeHeader(h string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(h) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '-' || r == '_' || r == '/':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// punctuation is dropped entirely
		}
	}
	return strings.TrimSpace(b.String())
}

// headerTokensContain reports whether the normalized header contains every
// token of the candidate entry.
func headerTokensContain(normalized string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(normalized, normalizeHeader(tok)) {
			return false
		}
	}
	return len(tokens) > 0
}

// Normalize maps a raw table onto the schema's canonical field names.
//
// Matching policy: for each canonical field in schema order, aliases are
// tried in priority order against the raw headers in file order; the first
// normalized match wins. A raw header may satisfy at most one canonical
// field (first claimed, first served). Substring entries are only consulted
// after all aliases of the field missed.
//
// Returns the normalized table, the raw headers that matched nothing, and a
// *SchemaMismatchError when a required field is absent. Pure function: the
// input table is not modified.
func Normalize(t Table, s Schema) (Table, []string, error) {
	normalized := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		normalized[i] = normalizeHeader(h)
	}

	claimed := make([]bool, len(t.Headers))
	fieldCol := make(map[string]int, len(s.Fields))

	for _, field := range s.Fields {
		col := -1
		for _, alias := range field.Aliases {
			want := normalizeHeader(alias)
			for i, h := range normalized {
				if claimed[i] || h == "" {
					continue
				}
				if h == want {
					col = i
					break
				}
			}
			if col >= 0 {
				break
			}
		}
		if col < 0 {
			for _, tokens := range field.Substrings {
				for i, h := range normalized {
					if claimed[i] || h == "" {
						continue
					}
					if headerTokensContain(h, tokens) {
						col = i
						break
					}
				}
				if col >= 0 {
					break
				}
			}
		}
		if col >= 0 {
			claimed[col] = true
			fieldCol[field.Name] = col
		}
	}

	var missing []string
	for _, field := range s.Fields {
		if field.Required {
			if _, ok := fieldCol[field.Name]; !ok {
				missing = append(missing, field.Name)
			}
		}
	}
	if len(missing) > 0 {
		return Table{}, nil, &SchemaMismatchError{Schema: s.Name, Missing: missing}
	}

	var unmatched []string
	for i, h := range t.Headers {
		if !claimed[i] && strings.TrimSpace(h) != "" {
			unmatched = append(unmatched, h)
		}
	}

	headers := make([]string, len(s.Fields))
	for i, field := range s.Fields {
		headers[i] = field.Name
	}

	rows := make([][]string, len(t.Rows))
	for ri, raw := range t.Rows {
		row := make([]string, len(s.Fields))
		for fi, field := range s.Fields {
			col, ok := fieldCol[field.Name]
			if ok && col < len(raw) {
				row[fi] = strings.TrimSpace(raw[col])
			}
		}
		rows[ri] = row
	}

	return NewTable(t.Sheet, headers, rows), unmatched, nil
}
