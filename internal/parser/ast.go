package parser

// Layer 1: Gherkin AST types

type Document struct {
	Feature *Feature
}

type Feature struct {
	Header     FeatureHeader
	Background *Background
	Scenarios  []ScenarioDefinition
}

type FeatureHeader struct {
	Tags        []Tag
	Name        string
	Description string
}

type Background struct {
	Steps []Step
	Line  int // 1-based line number of Background: line
}

type ScenarioDefinition struct {
	Tags     []Tag
	Scenario Scenario
	Line     int // 1-based line number of Scenario: line
}

type Scenario struct {
	Name  string
	Steps []Step
}

type Tag struct {
	Name string // e.g. "@smoke"
}

type Step struct {
	Keyword string // Given, When, Then, And, But, *
	Text    string
	Line    int
}

type ParseError struct {
	Line    int
	Message string
}
