// Package resolver arbitrates between the ordered origin/destination cue
// grammars and the gazetteer's place mentions to pick one (origin,
// destination) pair out of a free-form French travel sentence, or reject
// the sentence.
package resolver

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ludovictagnon/travelorder/internal/extract"
	"github.com/ludovictagnon/travelorder/internal/gazetteer"
	"github.com/ludovictagnon/travelorder/internal/normalize"
)

// cueSpec is a cue's raw regex and the number of intervening word tokens
// it tolerates before the place it introduces.
type cueSpec struct {
	pattern string
	maxGap  int
}

// Cue-list ordering is load-bearing: rightmost-candidate arbitration is
// not commutative with reordering these lists. Keep both stable.
var originCueSpecs = []cueSpec{
	{`\bdepuis\b`, 3},
	{`\ben\s+partant\s+de\b`, 1},
	{`\bpartant\s+de\b`, 1},
	{`\bdepart\b`, 1},
	{`\bde\b`, 1},
}

var destCueSpecs = []cueSpec{
	{`\ba\b`, 1},
	{`\bvers\b`, 1},
	{`\bpour\b`, 1},
	{`\bjusqu\s*a\b`, 1},
	{`\bdestination\b`, 1},
}

var fallbackMarkers = toSet(
	"je", "veux", "voudrais", "souhaite", "aller", "rendre", "train",
	"trains", "trajet", "depart", "destination", "besoin", "gare",
	"billet", "partir", "partant", "depuis", "faire",
)

var englishMarkers = toSet("from", "to", "going", "any")

var frenchMarkers = toSet(
	"depuis", "vers", "pour", "aller", "rendre", "billet", "partir",
	"partant", "gare", "trajet", "depart", "destination", "besoin",
	"voudrais", "souhaite",
)

func toSet(words ...string) map[string]bool {
	s := make(map[string]bool, len(words))
	for _, w := range words {
		s[w] = true
	}
	return s
}

// compiledCue pairs a cue's bare regex with the combined
// cue-gap-place regex built against one gazetteer's exact pattern.
type compiledCue struct {
	cueOnly  *regexp.Regexp
	combined *regexp.Regexp
	placeIdx int
}

// Resolver is built once from a gazetteer and reused across many
// sentences.
type Resolver struct {
	g          *gazetteer.Gazetteer
	originCues []compiledCue
	destCues   []compiledCue
}

// New builds a Resolver against a loaded gazetteer.
func New(g *gazetteer.Gazetteer) *Resolver {
	return &Resolver{
		g:          g,
		originCues: compileCues(originCueSpecs, g),
		destCues:   compileCues(destCueSpecs, g),
	}
}

func compileCues(specs []cueSpec, g *gazetteer.Gazetteer) []compiledCue {
	out := make([]compiledCue, len(specs))
	for i, spec := range specs {
		cueOnly := regexp.MustCompile(spec.pattern)
		combinedSrc := fmt.Sprintf(`(?:%s)(?:\s+\w+){0,%d}\s+(?P<place>%s)`,
			spec.pattern, spec.maxGap, g.ExactPattern.String())
		combined := regexp.MustCompile(combinedSrc)
		out[i] = compiledCue{
			cueOnly:  cueOnly,
			combined: combined,
			placeIdx: combined.SubexpIndex("place"),
		}
	}
	return out
}

// candidate is a (position, canonical) pair found for one role.
type candidate struct {
	offset    int
	canonical string
}

// Resolve extracts the (origin, destination) pair from a free-form
// sentence, or reports rejection via ok=false.
func (r *Resolver) Resolve(sentence string) (origin, destination string, ok bool) {
	s := normalize.Text(sentence)
	blocked := extract.Spans(s, r.g)

	originCandidates := collectCandidates(s, r.originCues, r.g, blocked)
	if len(originCandidates) == 0 {
		originCandidates = collectFuzzyCandidates(s, r.originCues, r.g, blocked)
	}
	destCandidates := collectCandidates(s, r.destCues, r.g, blocked)
	if len(destCandidates) == 0 {
		destCandidates = collectFuzzyCandidates(s, r.destCues, r.g, blocked)
	}

	allPlaces := extract.Exact(s, r.g)

	tokens := toSet(strings.Fields(s)...)
	markerHit := intersects(tokens, fallbackMarkers)
	englishOnly := intersects(tokens, englishMarkers) && !intersects(tokens, frenchMarkers)

	if englishOnly && len(originCandidates) == 0 && len(destCandidates) == 0 {
		return "", "", false
	}

	fallbackAllowed := len(originCandidates) > 0 || len(destCandidates) > 0 || markerHit

	if fallbackAllowed && distinctCanonicals(allPlaces) < 2 {
		fuzzyPlaces := extract.Fuzzy(s, r.g)
		known := make(map[string]bool)
		for _, p := range allPlaces {
			known[p.Canonical] = true
		}
		for _, p := range fuzzyPlaces {
			if !known[p.Canonical] {
				allPlaces = append(allPlaces, p)
				known[p.Canonical] = true
			}
		}
		sort.Slice(allPlaces, func(i, j int) bool { return allPlaces[i].Offset < allPlaces[j].Offset })
	}

	ordered := orderedCanonicals(allPlaces)

	if len(originCandidates) > 0 {
		origin = originCandidates[len(originCandidates)-1].canonical
	}
	if len(destCandidates) > 0 {
		destination = destCandidates[len(destCandidates)-1].canonical
	}

	if origin == "" && len(ordered) > 0 && fallbackAllowed {
		origin = ordered[0]
	}

	if destination == "" && fallbackAllowed {
		if origin == "" {
			if len(ordered) >= 2 {
				destination = ordered[1]
			}
		} else {
			for _, place := range ordered {
				if place != origin {
					destination = place
					break
				}
			}
		}
	}

	if origin == "" || destination == "" || origin == destination {
		return "", "", false
	}
	return origin, destination, true
}

func collectCandidates(s string, cues []compiledCue, g *gazetteer.Gazetteer, blocked []extract.Span) []candidate {
	var out []candidate
	seen := make(map[candidate]bool)
	for _, c := range cues {
		if c.placeIdx < 0 {
			continue
		}
		for _, m := range c.combined.FindAllStringSubmatchIndex(s, -1) {
			if extract.InSpans(m[0], blocked) {
				continue
			}
			ps, pe := m[2*c.placeIdx], m[2*c.placeIdx+1]
			if ps < 0 {
				continue
			}
			raw := collapseSpace(s[ps:pe])
			canonical, ok := g.Mapping[raw]
			if !ok {
				continue
			}
			cand := candidate{offset: ps, canonical: canonical}
			if !seen[cand] {
				out = append(out, cand)
				seen[cand] = true
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].offset < out[j].offset })
	return out
}

func collectFuzzyCandidates(s string, cues []compiledCue, g *gazetteer.Gazetteer, blocked []extract.Span) []candidate {
	tokens := extract.Tokenize(s)
	if len(tokens) == 0 {
		return nil
	}
	var out []candidate
	seen := make(map[candidate]bool)
	for _, c := range cues {
		for _, m := range c.cueOnly.FindAllStringIndex(s, -1) {
			if extract.InSpans(m[0], blocked) {
				continue
			}
			tokenIndex := -1
			for idx, tok := range tokens {
				if tok.Start >= m[1] {
					tokenIndex = idx
					break
				}
			}
			if tokenIndex == -1 {
				continue
			}
			offset, canonical, ok := extract.BestMatchAt(tokens, tokenIndex, g)
			if !ok {
				continue
			}
			cand := candidate{offset: offset, canonical: canonical}
			if !seen[cand] {
				out = append(out, cand)
				seen[cand] = true
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].offset < out[j].offset })
	return out
}

func distinctCanonicals(mentions []extract.Mention) int {
	seen := make(map[string]bool)
	for _, m := range mentions {
		seen[m.Canonical] = true
	}
	return len(seen)
}

func orderedCanonicals(mentions []extract.Mention) []string {
	sorted := append([]extract.Mention(nil), mentions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	var out []string
	seen := make(map[string]bool)
	for _, m := range sorted {
		if !seen[m.Canonical] {
			out = append(out, m.Canonical)
			seen[m.Canonical] = true
		}
	}
	return out
}

func intersects(a, b map[string]bool) bool {
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	for k := range small {
		if big[k] {
			return true
		}
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
