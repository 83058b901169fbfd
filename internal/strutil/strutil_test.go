package strutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	require.Equal(t, "value", LStripWS(" \t value"))
	require.Equal(t, "value", RStripWS("value \t "))
	require.Equal(t, "value", TrimWS("\t value  "))
	require.Equal(t, "", TrimWS(" \t "))
}

func TestCutHeader(t *testing.T) {
	value, params := CutHeader("form-data; name=\"a\"")
	require.Equal(t, "form-data", value)
	require.Equal(t, "name=\"a\"", params)

	value, params = CutHeader("text/plain")
	require.Equal(t, "text/plain", value)
	require.Empty(t, params)
}

func TestUnquote(t *testing.T) {
	require.Equal(t, "bare", Unquote("bare"))
	require.Equal(t, "quoted", Unquote(`"quoted"`))
	require.Equal(t, `a "b" c`, Unquote(`"a \"b\" c"`))
	require.Equal(t, `back\slash`, Unquote(`"back\\slash"`))
	require.Equal(t, `"`, Unquote(`"`))
}

func TestWalkParams(t *testing.T) {
	collect := func(params string) (pairs [][2]string) {
		for key, value := range WalkParams(params) {
			pairs = append(pairs, [2]string{key, value})
		}

		return pairs
	}

	t.Run("tokens and quoted strings", func(t *testing.T) {
		pairs := collect(`name="field"; filename=report.txt; charset=utf8`)
		require.Equal(t, [][2]string{
			{"name", "field"},
			{"filename", "report.txt"},
			{"charset", "utf8"},
		}, pairs)
	})

	t.Run("escaped quote inside value", func(t *testing.T) {
		pairs := collect(`name="file"; filename="a\"b.txt"`)
		require.Equal(t, [][2]string{
			{"name", "file"},
			{"filename", `a"b.txt`},
		}, pairs)
	})

	t.Run("semicolon inside quotes", func(t *testing.T) {
		pairs := collect(`name="a;b"`)
		require.Equal(t, [][2]string{{"name", "a;b"}}, pairs)
	})

	t.Run("missing equality sign", func(t *testing.T) {
		pairs := collect(`name`)
		require.Equal(t, [][2]string{{"", ""}}, pairs)
	})

	t.Run("unterminated quote", func(t *testing.T) {
		pairs := collect(`name="broken`)
		require.Equal(t, [][2]string{{"", ""}}, pairs)
	})

	t.Run("empty input", func(t *testing.T) {
		require.Empty(t, collect(""))
		require.Empty(t, collect("   "))
	})
}
