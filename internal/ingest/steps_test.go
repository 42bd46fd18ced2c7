package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSteps(t *testing.T) {
	t.Run("bullets", func(t *testing.T) {
		text := `Login flow

- click the login button
- type the user name
* type the password
`
		steps := ExtractSteps(text)
		assert.Equal(t, []Step{
			{Action: "click the login button"},
			{Action: "type the user name"},
			{Action: "type the password"},
		}, steps)
	})

	t.Run("numbered", func(t *testing.T) {
		text := "1. open the login page\n2) click the login button\n"
		steps := ExtractSteps(text)
		assert.Equal(t, []Step{
			{Action: "open the login page"},
			{Action: "click the login button"},
		}, steps)
	})

	t.Run("expected result attaches to preceding step", func(t *testing.T) {
		text := `- click the login button
Expected: the dashboard is shown
- log out
- Expected result: the login page is shown
`
		steps := ExtractSteps(text)
		assert.Equal(t, []Step{
			{Action: "click the login button", ExpectedResult: "the dashboard is shown"},
			{Action: "log out", ExpectedResult: "the login page is shown"},
		}, steps)
	})

	t.Run("prose is ignored", func(t *testing.T) {
		text := "This document describes the login flow.\nNothing here is a step.\n"
		assert.Empty(t, ExtractSteps(text))
	})

	t.Run("leading expected line is dropped", func(t *testing.T) {
		text := "Expected: nothing yet\n- click the login button\n"
		steps := ExtractSteps(text)
		assert.Equal(t, []Step{{Action: "click the login button"}}, steps)
	})
}
