package library

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
)

// FuzzyThreshold is the minimum Jaro-Winkler similarity for a ~term to match.
const FuzzyThreshold = 0.85

// defaultSearchFields are matched by terms without a field prefix.
var defaultSearchFields = []string{"artist", "albumartist", "album", "title", "genre"}

// Predicate matches a flat field map produced by Item.Fields or Album.Fields.
type Predicate interface {
	Match(fields map[string]any) bool
}

// Query is a conjunction of terms. The zero Query matches everything.
type Query struct {
	terms []term
}

type termKind int

const (
	termSubstring termKind = iota
	termFuzzy
	termRange
	termPrefix
)

type term struct {
	field  string // empty means any default field
	value  string
	kind   termKind
	negate bool
	lo, hi *int64
}

// ParseQuery parses the library query language:
//
//	beatles               substring on artist, albumartist, album, title or genre
//	artist:beatles        substring on one field (flexible attributes included)
//	~beatels              fuzzy match, also artist:~beatels
//	year:1965..1969       inclusive numeric range; either bound may be omitted
//	path:/music/rock      path prefix
//	^live                 negates the term
//
// Terms are separated by whitespace; double or single quotes group words.
func ParseQuery(s string) (*Query, error) {
	tokens, err := splitQuery(s)
	if err != nil {
		return nil, err
	}

	q := &Query{}
	for _, tok := range tokens {
		t := term{kind: termSubstring}
		if strings.HasPrefix(tok, "^") && len(tok) > 1 {
			t.negate = true
			tok = tok[1:]
		}

		if field, value, ok := strings.Cut(tok, ":"); ok && isFieldName(field) {
			t.field = strings.ToLower(field)
			tok = value
		}

		switch {
		case strings.HasPrefix(tok, "~"):
			t.kind = termFuzzy
			tok = tok[1:]
		case t.field == "path":
			t.kind = termPrefix
		case t.field != "" && strings.Contains(tok, ".."):
			lo, hi, err := parseRange(tok)
			if err != nil {
				return nil, err
			}
			t.kind = termRange
			t.lo, t.hi = lo, hi
		}
		t.value = strings.ToLower(tok)
		q.terms = append(q.terms, t)
	}
	return q, nil
}

// Match reports whether every term matches fields.
func (q *Query) Match(fields map[string]any) bool {
	for _, t := range q.terms {
		if t.match(fields) == t.negate {
			return false
		}
	}
	return true
}

func (t term) match(fields map[string]any) bool {
	if t.field == "" {
		for _, f := range defaultSearchFields {
			if t.matchValue(fields[f]) {
				return true
			}
		}
		return false
	}
	v, ok := fields[t.field]
	if !ok {
		return false
	}
	return t.matchValue(v)
}

func (t term) matchValue(v any) bool {
	switch t.kind {
	case termRange:
		n, ok := toInt(v)
		if !ok {
			return false
		}
		if t.lo != nil && n < *t.lo {
			return false
		}
		if t.hi != nil && n > *t.hi {
			return false
		}
		return true
	case termPrefix:
		p := strings.ToLower(DisplayablePath(fieldString(v)))
		return strings.HasPrefix(p, t.value)
	case termFuzzy:
		return fuzzyMatch(t.value, strings.ToLower(fieldString(v)))
	default:
		if b, ok := v.(bool); ok {
			if want, err := strconv.ParseBool(t.value); err == nil {
				return b == want
			}
		}
		return strings.Contains(strings.ToLower(fieldString(v)), t.value)
	}
}

// fuzzyMatch compares needle against the whole haystack and each of its words.
func fuzzyMatch(needle, haystack string) bool {
	if needle == "" {
		return true
	}
	if haystack == "" {
		return false
	}
	if edlib.JaroWinklerSimilarity(needle, haystack) >= FuzzyThreshold {
		return true
	}
	for _, word := range strings.Fields(haystack) {
		if edlib.JaroWinklerSimilarity(needle, word) >= FuzzyThreshold {
			return true
		}
	}
	return false
}

func fieldString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(x)
	}
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func parseRange(s string) (lo, hi *int64, err error) {
	left, right, _ := strings.Cut(s, "..")
	if left != "" {
		n, err := strconv.ParseInt(left, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad range start %q", ErrInvalidQuery, left)
		}
		lo = &n
	}
	if right != "" {
		n, err := strconv.ParseInt(right, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad range end %q", ErrInvalidQuery, right)
		}
		hi = &n
	}
	return lo, hi, nil
}

func isFieldName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// splitQuery splits on whitespace, honoring single and double quotes.
func splitQuery(s string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
		inTok  bool
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inTok = true
		case unicode.IsSpace(r):
			if inTok {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("%w: unterminated quote", ErrInvalidQuery)
	}
	if inTok {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}
