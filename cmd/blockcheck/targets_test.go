package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/inlinecheck/internal/driver"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		arg  string
		want driver.Target
	}{
		{"a_test.go:12", driver.Target{File: "a_test.go", Line: 12, Column: 1}},
		{"pkg/a_test.go:12:7", driver.Target{File: "pkg/a_test.go", Line: 12, Column: 7}},
		{`C:\src\a_test.go:3:2`, driver.Target{File: `C:\src\a_test.go`, Line: 3, Column: 2}},
		{"dir:x/a_test.go:5", driver.Target{File: "dir:x/a_test.go", Line: 5, Column: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseTarget(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTargetInvalid(t *testing.T) {
	for _, arg := range []string{"a_test.go", "a_test.go:", ":12", "a_test.go:0", "a_test.go:x", "a_test.go:-1"} {
		_, err := parseTarget(arg)
		assert.Error(t, err, arg)
	}
}

func TestParseTargets(t *testing.T) {
	got, err := parseTargets([]string{"a.go:1", "b.go:2:3"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = parseTargets([]string{"a.go:1", "b.go"})
	assert.Error(t, err)
}

func TestReadUIMode(t *testing.T) {
	mode, err := readUIMode(" ON ")
	require.NoError(t, err)
	assert.Equal(t, uiModeOn, mode)
	assert.True(t, shouldUseTUI(uiModeOn, 1))
	assert.False(t, shouldUseTUI(uiModeOff, 5))
	assert.False(t, shouldUseTUI(uiModeAuto, 1))

	_, err = readUIMode("sometimes")
	assert.Error(t, err)
}
