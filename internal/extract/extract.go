// Package extract finds place mentions in a normalized sentence: exact
// gazetteer matches first, then a fuzzy sliding-window sweep over the
// sentence's tokens.
package extract

import (
	"regexp"
	"strings"

	"github.com/ludovictagnon/travelorder/internal/editdist"
	"github.com/ludovictagnon/travelorder/internal/gazetteer"
)

// Mention is a place occurrence: its character offset in the normalized
// sentence and the canonical place name it resolved to.
type Mention struct {
	Offset    int
	Canonical string
}

// Span is a half-open character range [Start, End) in the normalized
// sentence, used to keep cue detection from firing inside a place name.
type Span struct {
	Start, End int
}

// Token is a \w+ token with its byte offsets in the normalized sentence.
type Token struct {
	Text       string
	Start, End int
}

var tokenPattern = regexp.MustCompile(`\w+`)

// Tokenize splits s into \w+ tokens with their byte offsets.
func Tokenize(s string) []Token {
	idx := tokenPattern.FindAllStringIndex(s, -1)
	tokens := make([]Token, 0, len(idx))
	for _, loc := range idx {
		tokens = append(tokens, Token{Text: s[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
	}
	return tokens
}

// Exact returns every non-overlapping exact gazetteer match in s, mapped to
// its canonical name, in left-to-right order.
func Exact(s string, g *gazetteer.Gazetteer) []Mention {
	locs := g.ExactPattern.FindAllStringIndex(s, -1)
	mentions := make([]Mention, 0, len(locs))
	for _, loc := range locs {
		raw := collapseSpace(s[loc[0]:loc[1]])
		canonical, ok := g.Mapping[raw]
		if !ok {
			continue
		}
		mentions = append(mentions, Mention{Offset: loc[0], Canonical: canonical})
	}
	return mentions
}

// Spans returns the character ranges covered by exact gazetteer matches,
// used to keep cue detection from firing on text that is itself part of a
// place name.
func Spans(s string, g *gazetteer.Gazetteer) []Span {
	locs := g.ExactPattern.FindAllStringIndex(s, -1)
	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, Span{Start: loc[0], End: loc[1]})
	}
	return spans
}

// InSpans reports whether position falls inside any of spans.
func InSpans(position int, spans []Span) bool {
	for _, sp := range spans {
		if sp.Start <= position && position < sp.End {
			return true
		}
	}
	return false
}

// Fuzzy slides a window of 1..g.MaxTokens tokens across s and emits at
// most one canonical per starting token, the minimum-distance match
// within tolerance.
func Fuzzy(s string, g *gazetteer.Gazetteer) []Mention {
	tokens := Tokenize(s)
	mentions := make([]Mention, 0)
	seen := make(map[Mention]bool)

	for idx := range tokens {
		offset, canonical, ok := BestMatchAt(tokens, idx, g)
		if !ok {
			continue
		}
		m := Mention{Offset: offset, Canonical: canonical}
		if !seen[m] {
			mentions = append(mentions, m)
			seen[m] = true
		}
	}
	return mentions
}

// BestMatchAt finds, starting at token idx, the minimum-distance gazetteer
// variant across all window lengths 1..g.MaxTokens. For each window length
// it scans the bucket of variants sharing the window's first character;
// when that bucket is absent or holds no variant within tolerance, it
// scans the "_all" bucket, so a typo in the first letter can still match.
func BestMatchAt(tokens []Token, idx int, g *gazetteer.Gazetteer) (offset int, canonical string, ok bool) {
	bestDistance := -1

	for length := 1; length <= g.MaxTokens; length++ {
		if idx+length > len(tokens) {
			break
		}
		candidate := joinTokens(tokens[idx : idx+length])
		firstChar := ""
		if candidate != "" {
			firstChar = candidate[:1]
		}
		buckets := g.FuzzyIndex[length]
		for _, variants := range [][]gazetteer.Variant{buckets[firstChar], buckets["_all"]} {
			withinTolerance := false
			for _, v := range variants {
				distance := editdist.Distance(candidate, v.Alias)
				if distance > editdist.MaxDistance(v.Alias) {
					continue
				}
				withinTolerance = true
				if bestDistance == -1 || distance < bestDistance {
					bestDistance = distance
					offset = tokens[idx].Start
					canonical = v.Canonical
					ok = true
				}
			}
			if withinTolerance {
				break
			}
		}
	}
	return offset, canonical, ok
}

func joinTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
