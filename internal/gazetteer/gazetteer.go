// Package gazetteer loads the alias→canonical place mapping and builds the
// two lookup structures the resolver needs: an exact multi-alias regex
// (longest-alias-wins) and a token-count/first-letter bucketed fuzzy
// index.
package gazetteer

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/ludovictagnon/travelorder/internal/normalize"
)

// Variant is one (normalized alias, canonical name) pair.
type Variant struct {
	Alias     string
	Canonical string
}

// Gazetteer is the immutable, once-built lookup structure shared across
// every sentence resolved in a run.
type Gazetteer struct {
	// Mapping is normalized-alias -> canonical name.
	Mapping map[string]string
	// ExactPattern matches the union of every alias, longest first,
	// anchored on word boundaries.
	ExactPattern *regexp.Regexp
	// FuzzyIndex buckets variants by token count, then by first
	// character of the variant (plus an "_all" bucket).
	FuzzyIndex map[int]map[string][]Variant
	// MaxTokens is the largest token count across all aliases.
	MaxTokens int
}

// Load reads an alias file (one entry per line, "name" or "alias|canonical",
// "#" comments, blank lines ignored) and builds the exact pattern and
// fuzzy index in one pass.
//
// When two aliases normalize to the same key, the later entry in the file
// wins — an explicit, documented policy rather than an error.
func Load(path string) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mapping := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var alias, canonical string
		if idx := strings.Index(line, "|"); idx >= 0 {
			alias = strings.TrimSpace(line[:idx])
			canonical = strings.TrimSpace(line[idx+1:])
		} else {
			alias = line
			canonical = line
		}
		if alias == "" || canonical == "" {
			continue
		}
		variant := normalize.Text(alias)
		if variant == "" {
			continue
		}
		mapping[variant] = canonical
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return build(mapping), nil
}

func build(mapping map[string]string) *Gazetteer {
	g := &Gazetteer{
		Mapping:    mapping,
		FuzzyIndex: make(map[int]map[string][]Variant),
		MaxTokens:  1,
	}

	variants := make([]string, 0, len(mapping))
	for variant, canonical := range mapping {
		variants = append(variants, variant)

		tokens := strings.Fields(variant)
		n := len(tokens)
		if n == 0 {
			continue
		}
		if n > g.MaxTokens {
			g.MaxTokens = n
		}
		buckets, ok := g.FuzzyIndex[n]
		if !ok {
			buckets = map[string][]Variant{"_all": nil}
			g.FuzzyIndex[n] = buckets
		}
		entry := Variant{Alias: variant, Canonical: canonical}
		buckets["_all"] = append(buckets["_all"], entry)

		firstChar := tokens[0][:1]
		buckets[firstChar] = append(buckets[firstChar], entry)
		g.FuzzyIndex[n] = buckets
	}

	g.ExactPattern = buildExactPattern(variants)
	return g
}

// buildExactPattern builds the union regex, longest alias first so a
// multi-word alias always wins over a shorter one it contains.
//
// The reference algorithm anchors each side with a negative lookaround on
// \w; Go's RE2 engine has no lookaround, so this uses \b instead — every
// alias is composed solely of [a-z0-9] tokens and spaces, so the two are
// equivalent in practice.
func buildExactPattern(variants []string) *regexp.Regexp {
	if len(variants) == 0 {
		return regexp.MustCompile(`[^\x00-\x{10FFFF}]`) // empty character class: never matches
	}

	sorted := append([]string(nil), variants...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	parts := make([]string, len(sorted))
	for i, v := range sorted {
		escaped := regexp.QuoteMeta(v)
		escaped = strings.ReplaceAll(escaped, `\ `, `\s+`)
		parts[i] = escaped
	}

	pattern := fmt.Sprintf(`\b(?:%s)\b`, strings.Join(parts, "|"))
	return regexp.MustCompile(pattern)
}
