package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runUndefined(t *testing.T, status string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunUndefined(&buf, status))
	return buf.String()
}

func TestUndefined_ListsUndefinedSteps(t *testing.T) {
	inTempDir(t)
	runInit(t)
	runDefine(t, "a user named {string}")
	writeFeature(t, "login.feature", loginFeature)
	runSync(t)

	out := runUndefined(t, "undefined")

	assert.Equal(t, "  features/login.feature:4  When she logs in 3 times\n  features/login.feature:5  Then she sees the dashboard\n", out)
}

func TestUndefined_AmbiguousSteps(t *testing.T) {
	inTempDir(t)
	runInit(t)
	runDefine(t, "she logs in {int} times")
	runDefine(t, "she logs in {word} times")
	writeFeature(t, "login.feature", loginFeature)
	runSync(t)

	out := runUndefined(t, "ambiguous")

	assert.Equal(t, "  features/login.feature:4  When she logs in 3 times\n", out)
}

func TestUndefined_NoneShowsMessage(t *testing.T) {
	inTempDir(t)
	runInit(t)
	runSync(t)

	out := runUndefined(t, "undefined")

	assert.Equal(t, "no undefined steps\n", out)
}

func TestUndefined_RequiresInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunUndefined(&buf, "undefined")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `stepx init` first")
}
