// Copyright 2025 Patrick Steil
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package normalize implements the deterministic text normalization shared
// by the gazetteer, the place extractor and the stop-name index: casefold,
// strip diacritics, flatten punctuation, collapse whitespace.
package normalize

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	nonAlnumSpaceHyphen = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// Text normalizes s the same way for gazetteer aliases, sentences and
// station names: lowercase, strip diacritics, flatten punctuation to
// spaces, flatten hyphens to spaces, collapse whitespace, trim.
//
// Text is idempotent: Text(Text(s)) == Text(s).
func Text(s string) string {
	s = unidecode.Unidecode(s)
	s = strings.ToLower(s)
	s = nonAlnumSpaceHyphen.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
