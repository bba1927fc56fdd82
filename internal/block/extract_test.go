package block

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/inlinecheck/internal/source"
)

const blockToFind = `(func() {
		type I1 struct {
			a int
			b string
		}
	})`

var blockSource = "    // comment\n" +
	"\t\tprop := \"Hello\"\n" +
	"\t\tfmt.Println(prop)\n" +
	"\t\t " + blockToFind + "    // another comment\n" +
	"\t\tif prop != \"\" {\n" +
	"\t\t\t\n" +
	"\t\t}\n" +
	"\t"

func TestExtractFindsBlock(t *testing.T) {
	start := strings.Index(blockSource, blockToFind)
	require.GreaterOrEqual(t, start, 0)
	want := source.Span{Start: uint32(start), End: uint32(start + len(blockToFind))}

	got, err := Extract('(', ')', []byte(blockSource), 4, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	text, err := ExtractText('(', ')', []byte(blockSource), 4, 1)
	require.NoError(t, err)
	assert.Equal(t, blockToFind, text)
}

func TestExtractOtherDelimitersDiffer(t *testing.T) {
	start := strings.Index(blockSource, blockToFind)
	want := source.Span{Start: uint32(start), End: uint32(start + len(blockToFind))}

	got, err := Extract('{', '}', []byte(blockSource), 1, 1)
	require.NoError(t, err)
	assert.NotEqual(t, want, got)
	assert.Equal(t, byte('{'), blockSource[got.Start])
	assert.Equal(t, byte('}'), blockSource[got.End-1])
}

func TestExtractStartsAtColumn(t *testing.T) {
	text := []byte("f(a)(b(c))")
	got, err := Extract('(', ')', text, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "(b(c))", string(text[got.Start:got.End]))
}

func TestExtractNoBlockAfterOrigin(t *testing.T) {
	_, err := Extract('(', ')', []byte(blockSource), 6, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnbalancedTokens))

	var ute *UnbalancedTokensError
	require.True(t, errors.As(err, &ute))
	assert.Equal(t, uint32(6), ute.Line)
}

func TestExtractUnclosed(t *testing.T) {
	_, err := Extract('{', '}', []byte("func() { if x { }"), 1, 1)
	var ute *UnbalancedTokensError
	require.True(t, errors.As(err, &ute))
	assert.Equal(t, 1, ute.Depth)
}

func TestExtractOriginPastEnd(t *testing.T) {
	_, err := Extract('(', ')', []byte("a(b)\n"), 5, 1)
	assert.ErrorIs(t, err, ErrUnbalancedTokens)

	_, err = Extract('(', ')', []byte("a(b)"), 1, 40)
	assert.ErrorIs(t, err, ErrUnbalancedTokens)
}

func TestExtractHugeColumn(t *testing.T) {
	_, err := Extract('(', ')', []byte("x(a)\n(b)\n"), 2, math.MaxUint32)
	assert.ErrorIs(t, err, ErrUnbalancedTokens)
}

func TestExtractRejectsSameTokens(t *testing.T) {
	_, err := Extract('|', '|', []byte("|a|"), 1, 1)
	assert.ErrorIs(t, err, ErrSameTokens)
}

func TestExtractSkipsStrayClose(t *testing.T) {
	text := []byte(") (x)")
	got, err := Extract('(', ')', text, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "(x)", string(text[got.Start:got.End]))
}

// Random balanced texts: the span starts with open, ends with close and
// nests back to zero only at its last byte.
func TestExtractBalancedProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pairs := [][2]byte{{'(', ')'}, {'{', '}'}, {'[', ']'}, {'<', '>'}}

	for iter := 0; iter < 300; iter++ {
		pair := pairs[iter%len(pairs)]
		text := randomText(rng, pair[0], pair[1])

		sp, err := Extract(pair[0], pair[1], text, 1, 1)
		if err != nil {
			require.ErrorIs(t, err, ErrUnbalancedTokens, "text %q", text)
			continue
		}
		region := text[sp.Start:sp.End]
		require.Equal(t, pair[0], region[0])
		require.Equal(t, pair[1], region[len(region)-1])

		depth := 0
		for i, b := range region {
			switch b {
			case pair[0]:
				depth++
			case pair[1]:
				depth--
			}
			if i < len(region)-1 {
				require.Greater(t, depth, 0, "depth reached zero early in %q", region)
			}
		}
		require.Zero(t, depth)
	}
}

func randomText(rng *rand.Rand, open, close byte) []byte {
	alphabet := []byte{'a', ' ', '\n', ';', open, close}
	n := 1 + rng.Intn(60)
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return out
}

func TestOffset(t *testing.T) {
	text := []byte("ab\ncde\n\nf")
	cases := []struct {
		line, col uint32
		want      uint32
		ok        bool
	}{
		{1, 1, 0, true},
		{2, 2, 4, true},
		{3, 1, 7, true},
		{4, 1, 8, true},
		{5, 1, 0, false},
		{0, 1, 0, false},
		{2, math.MaxUint32, 0, false},
	}
	for _, tc := range cases {
		got, ok := Offset(text, tc.line, tc.col)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("Offset(%d,%d) = %d,%v; want %d,%v", tc.line, tc.col, got, ok, tc.want, tc.ok)
		}
	}
}
