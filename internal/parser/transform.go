package parser

import "sort"

// ParsedFile is the step listing of one feature file.
type ParsedFile struct {
	Name   string
	Steps  []ParsedStep
	Errors []ParseError
}

// ParsedStep is one step line, tagged with the block it belongs to.
type ParsedStep struct {
	Scenario string // empty for Background steps
	Keyword  string
	Text     string
	Line     int // 1-based
}

// Transform flattens the Background and Scenario steps of a Document into
// file order.
func Transform(doc *Document, filename string, errors []ParseError) *ParsedFile {
	pf := &ParsedFile{
		Name:   filenameWithoutExt(filename),
		Errors: errors,
	}
	if doc.Feature == nil {
		return pf
	}
	if doc.Feature.Header.Name != "" {
		pf.Name = doc.Feature.Header.Name
	}

	if bg := doc.Feature.Background; bg != nil {
		for _, s := range bg.Steps {
			pf.Steps = append(pf.Steps, ParsedStep{Keyword: s.Keyword, Text: s.Text, Line: s.Line})
		}
	}
	for _, sd := range doc.Feature.Scenarios {
		for _, s := range sd.Scenario.Steps {
			pf.Steps = append(pf.Steps, ParsedStep{
				Scenario: sd.Scenario.Name,
				Keyword:  s.Keyword,
				Text:     s.Text,
				Line:     s.Line,
			})
		}
	}

	sort.SliceStable(pf.Steps, func(i, j int) bool { return pf.Steps[i].Line < pf.Steps[j].Line })
	return pf
}
