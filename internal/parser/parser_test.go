package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleScenario(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    Given a user
    When  they log in
    Then  they see the dashboard
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	assert.Equal(t, "Login", doc.Feature.Header.Name)
	require.Len(t, doc.Feature.Scenarios, 1)
	sc := doc.Feature.Scenarios[0]
	assert.Equal(t, "User logs in", sc.Scenario.Name)
	assert.Equal(t, 2, sc.Line)
	require.Len(t, sc.Scenario.Steps, 3)
	assert.Equal(t, Step{Keyword: "Given", Text: "a user", Line: 3}, sc.Scenario.Steps[0])
	assert.Equal(t, Step{Keyword: "When", Text: "they log in", Line: 4}, sc.Scenario.Steps[1])
	assert.Equal(t, "they see the dashboard", sc.Scenario.Steps[2].Text)
}

func TestParse_MultipleScenarios(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    Given a user

  Scenario: User fails login
    Given a user
    But the password is wrong
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.Scenarios, 2)
	assert.Equal(t, "User logs in", doc.Feature.Scenarios[0].Scenario.Name)
	assert.Len(t, doc.Feature.Scenarios[0].Scenario.Steps, 1)
	assert.Equal(t, "User fails login", doc.Feature.Scenarios[1].Scenario.Name)
	require.Len(t, doc.Feature.Scenarios[1].Scenario.Steps, 2)
	assert.Equal(t, "But", doc.Feature.Scenarios[1].Scenario.Steps[1].Keyword)
}

func TestParse_Background(t *testing.T) {
	content := []byte(`Feature: Login
  Background:
    Given a registered user
    * an open browser

  Scenario: User logs in
    When  they log in
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	require.NotNil(t, doc.Feature.Background)
	assert.Equal(t, 2, doc.Feature.Background.Line)
	require.Len(t, doc.Feature.Background.Steps, 2)
	assert.Equal(t, "*", doc.Feature.Background.Steps[1].Keyword)
	require.Len(t, doc.Feature.Scenarios, 1)
}

func TestParse_Tags(t *testing.T) {
	content := []byte(`@billing
Feature: Login
  @smoke @regression
  Scenario: User logs in
    Given a user
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.Header.Tags, 1)
	assert.Equal(t, "@billing", doc.Feature.Header.Tags[0].Name)
	tags := doc.Feature.Scenarios[0].Tags
	require.Len(t, tags, 2)
	assert.Equal(t, "@smoke", tags[0].Name)
	assert.Equal(t, "@regression", tags[1].Name)
}

func TestParse_SkipsDocStringsAndTables(t *testing.T) {
	content := []byte(`Feature: Docs
  Scenario: With arguments
    Given the following text
      """
      Given this is not a step
      """
    And the following users
      | name  |
      | alice |
    Then it works
`)
	doc, errors := Parse("docs.feature", content)
	require.Empty(t, errors)
	steps := doc.Feature.Scenarios[0].Scenario.Steps
	require.Len(t, steps, 3)
	assert.Equal(t, "the following text", steps[0].Text)
	assert.Equal(t, "the following users", steps[1].Text)
	assert.Equal(t, "it works", steps[2].Text)
}

func TestParse_ScenarioOutlineError(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario Outline: User logs in
    Given a user <name>
`)
	doc, errors := Parse("login.feature", content)
	require.Len(t, errors, 1)
	assert.Equal(t, "Scenario Outline is not supported", errors[0].Message)
	assert.Equal(t, 2, errors[0].Line)
	assert.Empty(t, doc.Feature.Scenarios)
}

func TestParse_RuleError(t *testing.T) {
	content := []byte(`Feature: Login
  Rule: Business rule
    Scenario: Test
      Given a rule
`)
	doc, errors := Parse("login.feature", content)
	require.Len(t, errors, 1)
	assert.Equal(t, "Rule is not supported", errors[0].Message)
	require.Len(t, doc.Feature.Scenarios, 1)
}

func TestParse_StepOutsideScenario(t *testing.T) {
	content := []byte(`Feature: Login
  Given a stray step
`)
	_, errors := Parse("login.feature", content)
	require.Len(t, errors, 1)
	assert.Equal(t, 2, errors[0].Line)
}

func TestParse_NoFeatureLine(t *testing.T) {
	content := []byte(`  Scenario: User logs in
    Given a user
`)
	doc, errors := Parse("features/login.feature", content)
	require.Empty(t, errors)
	assert.Equal(t, "login", doc.Feature.Header.Name)
	require.Len(t, doc.Feature.Scenarios, 1)
}

func TestParse_Comments(t *testing.T) {
	content := []byte(`# This is a comment
Feature: Login
  # Another comment
  Scenario: User logs in
    # Given a commented step
    Given a user
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	assert.Equal(t, "Login", doc.Feature.Header.Name)
	require.Len(t, doc.Feature.Scenarios[0].Scenario.Steps, 1)
}

func TestParse_EmptyFile(t *testing.T) {
	doc, errors := Parse("empty.feature", []byte(""))
	require.Empty(t, errors)
	assert.Equal(t, "empty", doc.Feature.Header.Name)
	assert.Empty(t, doc.Feature.Scenarios)
}
