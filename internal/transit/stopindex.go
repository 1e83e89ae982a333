package transit

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/ludovictagnon/travelorder/internal/editdist"
	"github.com/ludovictagnon/travelorder/internal/normalize"
	"github.com/ludovictagnon/travelorder/internal/tabular"
)

// StopIndexEntry is one normalized-name bucket: every display name and
// stop id observed under that key.
type StopIndexEntry struct {
	Names   []string `json:"names"`
	StopIDs []string `json:"stop_ids"`
}

// StopIndex maps a normalized stop name to the areas sharing that name.
type StopIndex map[string]*StopIndexEntry

// genericTokens are stop-name tokens too uninformative to anchor a
// fuzzy-prefix match on their own (every French station has a "gare").
var genericTokens = map[string]bool{
	"gare": true, "station": true, "halte": true, "arret": true, "stop": true,
}

// BuildStopIndex reads a stops table (requiring stop_id, stop_name;
// optionally location_type to restrict to stop areas) and groups rows by
// normalized name.
func BuildStopIndex(path string, limit int) (StopIndex, error) {
	tbl, err := tabular.Load(path)
	if err != nil {
		return nil, err
	}
	if !tbl.HasColumns("stop_id", "stop_name") {
		return nil, fmt.Errorf("transit: %s is missing required columns stop_id/stop_name", path)
	}
	hasLocationType := tbl.HasColumns("location_type")

	index := make(StopIndex)
	count := 0
	for _, row := range tbl.Rows {
		if limit > 0 && count >= limit {
			break
		}
		if hasLocationType {
			loc := tbl.Get(row, "location_type")
			if loc != "" && loc != "1" {
				continue
			}
		}
		stopID := tbl.Get(row, "stop_id")
		stopName := tbl.Get(row, "stop_name")
		if stopID == "" || stopName == "" {
			continue
		}
		count++

		key := normalize.Text(stopName)
		entry, ok := index[key]
		if !ok {
			entry = &StopIndexEntry{}
			index[key] = entry
		}
		entry.Names = appendUnique(entry.Names, stopName)
		entry.StopIDs = appendUnique(entry.StopIDs, stopID)
	}

	for _, entry := range index {
		sort.Strings(entry.Names)
		sort.Strings(entry.StopIDs)
	}
	return index, nil
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

// Save writes the index as indented JSON to path.
func (idx StopIndex) Save(path string) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadStopIndex reads a persisted stop-index JSON artifact. As with
// LoadGraph, parsing goes through fastjson: the index for a nationwide
// feed can carry hundreds of thousands of keys.
func LoadStopIndex(path string) (StopIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	value, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("transit: parsing stop index %s: %w", path, err)
	}

	index := make(StopIndex)
	obj, err := value.Object()
	if err != nil {
		return nil, fmt.Errorf("transit: stop index %s is not a JSON object: %w", path, err)
	}
	obj.Visit(func(key []byte, v *fastjson.Value) {
		entry := &StopIndexEntry{}
		for _, n := range v.GetArray("names") {
			if s, err := n.StringBytes(); err == nil {
				entry.Names = append(entry.Names, string(s))
			}
		}
		for _, n := range v.GetArray("stop_ids") {
			if s, err := n.StringBytes(); err == nil {
				entry.StopIDs = append(entry.StopIDs, string(s))
			}
		}
		index[string(key)] = entry
	})
	return index, nil
}

// ResolveStopIDs maps a free-form station name to a sorted, deduplicated
// set of stop ids, trying in order: exact key (with saint/st variant
// swap), prefix, fuzzy prefix over informative tokens, substring
// containment. Returns the first non-empty result.
func ResolveStopIDs(index StopIndex, name string) []string {
	key := normalize.Text(name)
	if key == "" {
		return nil
	}

	variants := map[string]bool{key: true}
	if strings.Contains(key, "saint ") {
		variants[strings.ReplaceAll(key, "saint ", "st ")] = true
	}
	if strings.Contains(key, "st ") {
		variants[strings.ReplaceAll(key, "st ", "saint ")] = true
	}

	matched := make(map[string]bool)
	for variant := range variants {
		if entry, ok := index[variant]; ok {
			for _, id := range entry.StopIDs {
				matched[id] = true
			}
		}
	}
	if len(matched) > 0 {
		return sortedKeys(matched)
	}

	for variant := range variants {
		prefix := variant + " "
		for candidateKey, entry := range index {
			if strings.HasPrefix(candidateKey, prefix) {
				for _, id := range entry.StopIDs {
					matched[id] = true
				}
			}
		}
	}
	if len(matched) > 0 {
		return sortedKeys(matched)
	}

	for variant := range variants {
		variantTokens := strings.Fields(variant)
		if len(variantTokens) == 0 {
			continue
		}
		if !hasInformativeToken(variantTokens) {
			continue
		}
		n := len(variantTokens)

		bestDistance := -1
		bestIDs := make(map[string]bool)
		for candidateKey, entry := range index {
			candidateTokens := strings.Fields(candidateKey)
			if len(candidateTokens) < n {
				continue
			}
			candidatePrefix := strings.Join(candidateTokens[:n], " ")
			distance := editdist.Distance(variant, candidatePrefix)
			if distance > editdist.MaxDistance(variant) {
				continue
			}
			if bestDistance == -1 || distance < bestDistance {
				bestDistance = distance
				bestIDs = make(map[string]bool)
				for _, id := range entry.StopIDs {
					bestIDs[id] = true
				}
			} else if distance == bestDistance {
				for _, id := range entry.StopIDs {
					bestIDs[id] = true
				}
			}
		}
		for id := range bestIDs {
			matched[id] = true
		}
	}
	if len(matched) > 0 {
		return sortedKeys(matched)
	}

	for variant := range variants {
		for candidateKey, entry := range index {
			if strings.Contains(candidateKey, variant) {
				for _, id := range entry.StopIDs {
					matched[id] = true
				}
			}
		}
	}
	return sortedKeys(matched)
}

func hasInformativeToken(tokens []string) bool {
	for _, t := range tokens {
		if len(t) >= 3 && !genericTokens[t] {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
