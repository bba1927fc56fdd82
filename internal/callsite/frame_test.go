package callsite

import (
	"testing"
)

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Frame
		ok   bool
	}{
		{
			name: "call frame",
			text: "example.com/m/pkg.TestThing(0xc000102340)\n\t/src/m/pkg/thing_test.go:42 +0x1d",
			want: Frame{Function: "example.com/m/pkg.TestThing", File: "/src/m/pkg/thing_test.go", Line: 42},
			ok:   true,
		},
		{
			name: "method with elided args",
			text: "example.com/m.(*Checker).diagnose(...)\n\t/src/m/check.go:10",
			want: Frame{Function: "example.com/m.(*Checker).diagnose", File: "/src/m/check.go", Line: 10},
			ok:   true,
		},
		{
			name: "explicit column",
			text: "m.f({0x1, 0x2})\n\t/a/b.go:7:13 +0x5",
			want: Frame{Function: "m.f", File: "/a/b.go", Line: 7, Column: 13},
			ok:   true,
		},
		{
			name: "created by",
			text: "created by testing.(*T).Run in goroutine 1\n\t/go/src/testing/testing.go:1743 +0x390",
			want: Frame{Function: "testing.(*T).Run", File: "/go/src/testing/testing.go", Line: 1743, Created: true},
			ok:   true,
		},
		{
			name: "created by without goroutine",
			text: "created by m.TestX\n\t/a/x_test.go:3",
			want: Frame{Function: "m.TestX", File: "/a/x_test.go", Line: 3, Created: true},
			ok:   true,
		},
		{
			name: "drive letter path",
			text: "m.f()\n\tC:/work/m/f.go:9 +0x1",
			want: Frame{Function: "m.f", File: "C:/work/m/f.go", Line: 9},
			ok:   true,
		},
		{name: "no location line", text: "m.f()", ok: false},
		{name: "no args", text: "m.f\n\t/a.go:1", ok: false},
		{name: "line not a number", text: "m.f()\n\t/a.go:x +0x1", ok: false},
		{name: "no line field", text: "m.f()\n\t/a.go +0x1", ok: false},
		{name: "zero line", text: "m.f()\n\t/a.go:0", ok: false},
		{name: "bad goroutine", text: "created by m.f in goroutine x\n\t/a.go:1", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFrame(tt.text)
			if ok != tt.ok {
				t.Fatalf("ParseFrame ok = %v, want %v (frame %+v)", ok, tt.ok, got)
			}
			if ok && got != tt.want {
				t.Errorf("ParseFrame = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFrameName(t *testing.T) {
	cases := map[string]string{
		"example.com/m.(*Checker).diagnose": "diagnose",
		"example.com/m/pkg.TestX.func1":     "func1",
		"main.main":                         "main",
		"nopackage":                         "",
	}
	for fn, want := range cases {
		if got := (Frame{Function: fn}).Name(); got != want {
			t.Errorf("Name(%q) = %q, want %q", fn, got, want)
		}
	}
}

func TestLooksLikeTest(t *testing.T) {
	cases := map[string]bool{
		"m/pkg.TestThing(0x1)\n\t/a.go:1":         true,
		"m/pkg.TestThing.func2()\n\t/a.go:1":      true,
		"m/pkg.Test(0x1)\n\t/a.go:1":              true,
		"m/pkg.BenchmarkX(0x1)\n\t/a.go:1":        true,
		"m/pkg.FuzzX.func1(0x1)\n\t/a.go:1":       true,
		"m/pkg.ExampleChecker()\n\t/a.go:1":       true,
		"created by m/pkg.TestG in goroutine 6":   true,
		"m/pkg.Testing(0x1)\n\t/a.go:1":           false,
		"m/pkg.helperTest()\n\t/a.go:1":           false,
		"testing.tRunner(0x1, 0x2)\n\t/a.go:1":    false,
		"m/pkg.(*Suite).TestX(0x1)\n\t/a.go:1":    false,
		"created by testing.(*T).Run in goroutine": false,
	}
	for text, want := range cases {
		if got := looksLikeTest(text); got != want {
			t.Errorf("looksLikeTest(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestSplitFramesDropsMachinery(t *testing.T) {
	stack := "goroutine 7 [running]:\n" +
		"runtime/debug.Stack()\n\t/go/src/runtime/debug/stack.go:26 +0x5e\n" +
		selfPkg + ".Capture(...)\n\t/m/internal/callsite/callsite.go:40\n" +
		selfPkg + ".Resolve({0x1, 0x8})\n\t/m/internal/callsite/callsite.go:77 +0x25\n" +
		"m.(*Checker).diagnose(0xc0)\n\t/m/check.go:10 +0x1\n" +
		"m_test.TestX(0xc1)\n\t/m/x_test.go:5 +0x2\n" +
		"...additional frames elided...\n" +
		"created by testing.(*T).Run in goroutine 1\n\t/go/src/testing/testing.go:1743 +0x390\n"

	frames := splitFrames([]byte(stack))
	want := []string{
		"m.(*Checker).diagnose(0xc0)\n\t/m/check.go:10 +0x1",
		"m_test.TestX(0xc1)\n\t/m/x_test.go:5 +0x2",
		"created by testing.(*T).Run in goroutine 1\n\t/go/src/testing/testing.go:1743 +0x390",
	}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames: %q", len(frames), frames)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frame %d = %q, want %q", i, frames[i], want[i])
		}
	}
}
