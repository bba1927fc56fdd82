package callsite_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/inlinecheck/internal/callsite"
)

func diagnose() (callsite.Origin, error) {
	return callsite.Resolve("diagnose")
}

func other() (callsite.Origin, error) {
	return callsite.Resolve("diagnose")
}

func TestResolveFromNamedWrapper(t *testing.T) {
	origin, err := diagnose()
	_, file, line, _ := runtime.Caller(0)
	require.NoError(t, err)

	assert.Equal(t, file, origin.File)
	assert.Equal(t, uint32(line-1), origin.Line)
	// "\torigin, err := diagnose()": '(' is the 25th byte
	assert.Equal(t, uint32(25), origin.Column)
	assert.Contains(t, origin.Function, "TestResolveFromNamedWrapper")
}

func TestResolveInsideSubtest(t *testing.T) {
	t.Run("nested", func(t *testing.T) {
		origin, err := diagnose()
		require.NoError(t, err)
		_, file, _, _ := runtime.Caller(0)
		assert.Equal(t, file, origin.File)
		assert.Contains(t, origin.Function, "TestResolveInsideSubtest.func1")
	})
}

func TestResolveRejectsWrongEntry(t *testing.T) {
	_, err := other()
	require.Error(t, err)

	var misuse *callsite.MisuseError
	require.ErrorAs(t, err, &misuse)
	assert.True(t, errors.Is(err, callsite.ErrMisuse))
	assert.Equal(t, "diagnose", misuse.Entry)
	assert.Contains(t, misuse.Got, "other")
}

func TestResolveFramesWithoutTestFrame(t *testing.T) {
	frames := []string{
		"m.diagnose()\n\t/m/a.go:3 +0x1",
		"main.main()\n\t/m/main.go:9 +0x2",
	}
	_, err := callsite.ResolveFrames("diagnose", frames)
	require.ErrorIs(t, err, callsite.ErrMalformedStack)
}

func TestResolveFramesMalformedTestLocation(t *testing.T) {
	frames := []string{
		"m.diagnose()\n\t/m/a.go:3 +0x1",
		"m.TestX(0x1)\n\t/m/x_test.go +0x2",
	}
	_, err := callsite.ResolveFrames("diagnose", frames)

	var malformed *callsite.MalformedStackError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Frame, "TestX")
}

func TestResolveFramesEmpty(t *testing.T) {
	_, err := callsite.ResolveFrames("diagnose", nil)
	require.ErrorIs(t, err, callsite.ErrMisuse)
}

func TestResolveFramesRefinesColumn(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x_test.go")
	src := "package x\n\nfunc TestX(t *testing.T) {\n\tinlinecheck.MustInfer(t); inlinecheck.Infer(func() {})\n}\n"
	require.NoError(t, os.WriteFile(file, []byte(src), 0o600))

	frames := []string{
		"m.(*Checker).diagnose(0x1)\n\t/m/check.go:3 +0x1",
		"m.Infer(...)\n\t/m/api.go:5",
		"x.TestX(0x1)\n\t" + file + ":4 +0x2",
	}
	origin, err := callsite.ResolveFrames("diagnose", frames)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), origin.Line)
	// first "Infer(" inside "MustInfer(" is skipped
	assert.Equal(t, uint32(45), origin.Column)

	frames[1] = "m.Diagnose(...)\n\t/m/api.go:5"
	origin, err = callsite.ResolveFrames("diagnose", frames)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), origin.Column)
}
