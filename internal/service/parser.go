package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/platewise/souschef/internal/types"
)

// NumberedListParser extracts recipe names from the numbered list the
// recommendation prompt asks for. Best effort by design: models stray from
// the format, and a partial parse is not an error — the raw text stays the
// source of truth.
type NumberedListParser struct {
	item *regexp.Regexp
}

// NewNumberedListParser returns the default parser.
func NewNumberedListParser() *NumberedListParser {
	return &NumberedListParser{
		// "1. Name", "2) Name", "**3. Name**" and similar.
		item: regexp.MustCompile(`^\s*(?:\*\*)?(\d+)[\.\)]\s*(.+?)\s*$`),
	}
}

// Parse returns at most three candidates, in presentation order. Numbered
// lines inside a candidate's body (ingredient counts, sub-lists) are
// filtered out by requiring item numbers to increase from 1.
func (p *NumberedListParser) Parse(text string) []types.RecipeCandidate {
	var out []types.RecipeCandidate
	next := 1

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := p.item.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n != next || n > 3 {
			continue
		}

		name := cleanCandidateName(m[2])
		if name == "" {
			continue
		}
		out = append(out, types.RecipeCandidate{
			Name:    name,
			Details: candidateDetails(lines[i+1:], p.item),
		})
		next++
	}
	return out
}

// cleanCandidateName strips markdown and the prompt's own labels, and cuts
// any trailing inline description.
func cleanCandidateName(s string) string {
	s = strings.TrimSpace(s)
	for _, label := range []string{"Recipe Name:", "Recipe:", "Name:"} {
		if len(s) >= len(label) && strings.EqualFold(s[:len(label)], label) {
			s = strings.TrimSpace(s[len(label):])
		}
	}
	for _, sep := range []string{" - ", " — ", " – "} {
		if i := strings.Index(s, sep); i > 0 {
			s = s[:i]
		}
	}
	s = strings.Trim(s, "*_ \t")
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}

// candidateDetails collects the lines following a numbered item up to the
// next item, as a raw description block.
func candidateDetails(rest []string, item *regexp.Regexp) string {
	var body []string
	for _, line := range rest {
		if item.MatchString(line) {
			break
		}
		body = append(body, line)
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}
