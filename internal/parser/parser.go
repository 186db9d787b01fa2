package parser

import (
	"regexp"
	"strings"
)

var (
	tagPattern   = regexp.MustCompile(`@[^@\s]+`)
	stepKeywords = []string{"Given ", "When ", "Then ", "And ", "But ", "* "}
)

// Parse parses a .feature file and returns a Document AST and any parse errors.
func Parse(filename string, content []byte) (*Document, []ParseError) {
	lines := strings.Split(string(content), "\n")
	var errors []ParseError

	feature := &Feature{}
	doc := &Document{Feature: feature}

	i := 0

	// Skip leading blanks and comments
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			i++
			continue
		}
		break
	}

	// Collect feature-level tags
	var featureTags []Tag
	for i < len(lines) && isTagLine(strings.TrimSpace(lines[i])) {
		featureTags = append(featureTags, parseTags(strings.TrimSpace(lines[i]))...)
		i++
	}
	feature.Header.Tags = featureTags

	if i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "Feature:") {
		feature.Header.Name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[i]), "Feature:"))
		i++

		var descLines []string
		for i < len(lines) {
			trimmed := strings.TrimSpace(lines[i])
			if isKeyword(trimmed) || isTagLine(trimmed) {
				break
			}
			if _, _, ok := splitStep(trimmed); ok {
				break
			}
			descLines = append(descLines, lines[i])
			i++
		}
		if desc := strings.TrimSpace(strings.Join(descLines, "\n")); desc != "" {
			feature.Header.Description = desc
		}
	} else {
		feature.Header.Name = filenameWithoutExt(filename)
	}

	// Body loop
	var pendingTags []Tag
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			i++

		case isDocStringDelimiter(trimmed):
			i = skipDocString(lines, i)

		case isTagLine(trimmed):
			pendingTags = append(pendingTags, parseTags(trimmed)...)
			i++

		case strings.HasPrefix(trimmed, "Background:"):
			pendingTags = nil // Background doesn't get tags
			bg := &Background{Line: i + 1}
			i++
			bg.Steps, i = consumeSteps(lines, i)
			feature.Background = bg

		case strings.HasPrefix(trimmed, "Scenario:"):
			sd := ScenarioDefinition{
				Tags:     pendingTags,
				Scenario: Scenario{Name: strings.TrimSpace(strings.TrimPrefix(trimmed, "Scenario:"))},
				Line:     i + 1,
			}
			pendingTags = nil
			i++
			sd.Scenario.Steps, i = consumeSteps(lines, i)
			feature.Scenarios = append(feature.Scenarios, sd)

		case strings.HasPrefix(trimmed, "Scenario Outline:"):
			errors = append(errors, ParseError{Line: i + 1, Message: "Scenario Outline is not supported"})
			pendingTags = nil
			i++
			_, i = consumeSteps(lines, i)

		case strings.HasPrefix(trimmed, "Rule:"):
			errors = append(errors, ParseError{Line: i + 1, Message: "Rule is not supported"})
			i++

		case strings.HasPrefix(trimmed, "Examples:"):
			errors = append(errors, ParseError{Line: i + 1, Message: "Examples is not supported"})
			i++
			_, i = consumeSteps(lines, i)

		default:
			if _, _, ok := splitStep(trimmed); ok {
				errors = append(errors, ParseError{Line: i + 1, Message: "Step outside of a Scenario or Background"})
			}
			i++
		}
	}

	return doc, errors
}

// consumeSteps collects step lines until the next keyword, a tag line that
// precedes a keyword, or EOF. Doc strings and data tables are skipped.
func consumeSteps(lines []string, i int) ([]Step, int) {
	var steps []Step
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if isDocStringDelimiter(t) {
			i = skipDocString(lines, i)
			continue
		}
		if isKeyword(t) {
			break
		}
		if isTagLine(t) && tagPrecedesKeyword(lines, i) {
			break
		}
		if keyword, text, ok := splitStep(t); ok {
			steps = append(steps, Step{Keyword: keyword, Text: text, Line: i + 1})
		}
		i++
	}
	return steps, i
}

// splitStep splits "Given a user" into its keyword and text.
func splitStep(trimmed string) (string, string, bool) {
	for _, kw := range stepKeywords {
		if strings.HasPrefix(trimmed, kw) {
			return strings.TrimSpace(kw), strings.TrimSpace(trimmed[len(kw):]), true
		}
	}
	return "", "", false
}

func parseTags(line string) []Tag {
	matches := tagPattern.FindAllString(line, -1)
	var tags []Tag
	for _, m := range matches {
		tags = append(tags, Tag{Name: m})
	}
	return tags
}

func isTagLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "@")
}

func isKeyword(trimmed string) bool {
	return strings.HasPrefix(trimmed, "Feature:") ||
		strings.HasPrefix(trimmed, "Background:") ||
		strings.HasPrefix(trimmed, "Scenario:") ||
		strings.HasPrefix(trimmed, "Scenario Outline:") ||
		strings.HasPrefix(trimmed, "Rule:") ||
		strings.HasPrefix(trimmed, "Examples:")
}

func isDocStringDelimiter(trimmed string) bool {
	return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```")
}

// skipDocString advances past a doc string block. i points at the opening delimiter.
// Returns the index of the line after the closing delimiter.
func skipDocString(lines []string, i int) int {
	delimiter := `"""`
	if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
		delimiter = "```"
	}
	i++ // move past opening delimiter
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == delimiter {
			return i + 1
		}
		i++
	}
	return i // EOF without closing delimiter
}

// tagPrecedesKeyword checks if a tag line at index i is followed by a keyword line.
func tagPrecedesKeyword(lines []string, i int) bool {
	for j := i + 1; j < len(lines); j++ {
		t := strings.TrimSpace(lines[j])
		if t == "" || strings.HasPrefix(t, "#") || strings.HasPrefix(t, "@") {
			continue
		}
		return isKeyword(t)
	}
	return false
}

func filenameWithoutExt(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
