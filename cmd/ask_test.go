package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	args, err := parseArgs([]string{"user_id=u1", "user_answer=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"user_id":     "u1",
		"user_answer": "a=b",
		"empty":       "",
	}, args)

	for _, bad := range []string{"novalue", "=x"} {
		_, err := parseArgs([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestActionNames(t *testing.T) {
	names := actionNames()
	for _, want := range []string{"get_question", "analyze_answer", "interview_system"} {
		assert.True(t, strings.Contains(names, want), want)
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "12345678", shortID("1234567890"))
	assert.Equal(t, "abc", shortID("abc"))
}
