package spectrum

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/spectrocal/internal/logging"
	"github.com/soltixdb/spectrocal/internal/models"
)

func newTestParser(t *testing.T, opts Options) *Parser {
	t.Helper()
	p, err := NewParser(opts, logging.NewNop())
	require.NoError(t, err)
	return p
}

func TestParseBytes_DecimalCommaMatchesDot(t *testing.T) {
	p := newTestParser(t, DefaultOptions())

	dot, err := p.ParseBytes("dot.txt", []byte("400.5 12.25\n401.0 13.5\n401.5 14.75\n"))
	require.NoError(t, err)
	comma, err := p.ParseBytes("comma.txt", []byte("400,5 12,25\n401,0 13,5\n401,5 14,75\n"))
	require.NoError(t, err)

	assert.Equal(t, dot.Series, comma.Series)
	assert.Equal(t, []float64{400.5, 401.0, 401.5}, comma.Series.X)
	assert.Equal(t, []float64{12.25, 13.5, 14.75}, comma.Series.Y)
}

func TestParseBytes_EachDelimiter(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		delimiter string
	}{
		{name: "single space", content: "500 10\n501 11\n", delimiter: " "},
		{name: "tab", content: "500\t10\n501\t11\n", delimiter: "\t"},
		{name: "double space", content: "500  10\n501  11\n", delimiter: "  "},
		{name: "tab with extra columns", content: "500\t10\t0.1\n501\t11\t0.2\n", delimiter: "\t"},
	}

	p := newTestParser(t, DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.ParseBytes(tt.name, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.delimiter, res.Delimiter)
			assert.Equal(t, []float64{500, 501}, res.Series.X)
			assert.Equal(t, []float64{10, 11}, res.Series.Y)
		})
	}
}

func TestParseBytes_DelimiterUnresolved(t *testing.T) {
	p := newTestParser(t, DefaultOptions())

	res, err := p.ParseBytes("semicolon.txt", []byte("500;10\n501;11\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDelimiterUnresolved))
	assert.Equal(t, models.FailureDelimiterUnresolved, res.Kind())
	assert.True(t, res.Series.IsEmpty())
}

func TestParseBytes_SkipsHeaderBlankAndMalformedLines(t *testing.T) {
	content := "Wavelength Intensity\n\n400 1.5\nnot a number\n\n401 2.5\n402\n403 3.5\n"
	p := newTestParser(t, DefaultOptions())

	res, err := p.ParseBytes("mixed.txt", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, []float64{400, 401, 403}, res.Series.X)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, res.Series.Y)
	assert.Equal(t, 6, res.Lines)
	assert.Equal(t, 3, res.Skipped)
}

func TestParseBytes_DelimiterFixedAfterFirstMatch(t *testing.T) {
	// Once tab is adopted, the space-separated line is not re-evaluated
	p := newTestParser(t, DefaultOptions())

	res, err := p.ParseBytes("fixed.txt", []byte("500\t10\n501 11\n502\t12\n"))
	require.NoError(t, err)
	assert.Equal(t, "\t", res.Delimiter)
	assert.Equal(t, []float64{500, 502}, res.Series.X)
	assert.Equal(t, 1, res.Skipped)
}

func TestParseBytes_CRLFLineEndings(t *testing.T) {
	p := newTestParser(t, DefaultOptions())

	res, err := p.ParseBytes("crlf.txt", []byte("500 10\r\n501 11\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11}, res.Series.Y)
}

func TestParseBytes_Latin1Fallback(t *testing.T) {
	// 0xB5 is 'µ' in latin-1 and invalid as a lone UTF-8 byte
	content := append([]byte("Intensity (\xb5W)\n"), []byte("500 10\n501 11\n")...)
	p := newTestParser(t, DefaultOptions())

	res, err := p.ParseBytes("latin1.txt", content)
	require.NoError(t, err)
	assert.Equal(t, "latin-1", res.Encoding)
	assert.Equal(t, 2, res.Series.Len())
}

func TestParseBytes_UTF8BOM(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("500 10\n")...)
	p := newTestParser(t, DefaultOptions())

	res, err := p.ParseBytes("bom.txt", content)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", res.Encoding)
	assert.Equal(t, []float64{500}, res.Series.X)
}

func TestParseBytes_UTF16WithBOM(t *testing.T) {
	text := "500 10\n501 11\n"
	content := []byte{0xFF, 0xFE}
	for _, b := range []byte(text) {
		content = append(content, b, 0x00)
	}

	p := newTestParser(t, Options{Encodings: []string{"utf-16", "utf-8"}})
	res, err := p.ParseBytes("utf16.txt", content)
	require.NoError(t, err)
	assert.Equal(t, "utf-16", res.Encoding)
	assert.Equal(t, []float64{10, 11}, res.Series.Y)
}

func TestParseBytes_EncodingUnresolved(t *testing.T) {
	p := newTestParser(t, Options{Encodings: []string{"utf-8"}})

	res, err := p.ParseBytes("binary.txt", []byte{0xff, 0xfe, 0xfd, '\n'})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrEncodingUnresolved))
	assert.True(t, res.Series.IsEmpty())
	assert.Empty(t, res.Encoding)
}

func TestParseBytes_EmptySeries(t *testing.T) {
	p := newTestParser(t, DefaultOptions())

	res, err := p.ParseBytes("blank.txt", []byte("\n\n   \n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrEmptySeries))
	assert.Equal(t, models.FailureEmptySeries, res.Kind())
}

func TestParseBytes_RejectsNonFinite(t *testing.T) {
	p := newTestParser(t, DefaultOptions())

	res, err := p.ParseBytes("nan.txt", []byte("500 10\n501 NaN\n502 Inf\n503 13\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{500, 503}, res.Series.X)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0uM.txt")
	require.NoError(t, os.WriteFile(path, []byte("500 10.0\n"), 0o644))

	p := newTestParser(t, DefaultOptions())
	res, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, []float64{500}, res.Series.X)
	assert.Equal(t, []float64{10}, res.Series.Y)
}

func TestParseFile_Missing(t *testing.T) {
	p := newTestParser(t, DefaultOptions())

	res, err := p.ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrFileUnreadable))
	assert.True(t, res.Series.IsEmpty())
}

func TestNewParser_UnknownEncoding(t *testing.T) {
	_, err := NewParser(Options{Encodings: []string{"ebcdic"}}, logging.NewNop())
	assert.Error(t, err)
}

func TestNewParser_EmptyDelimiter(t *testing.T) {
	_, err := NewParser(Options{Delimiters: []string{" ", ""}}, logging.NewNop())
	assert.Error(t, err)
}

func TestLookupEncoding_Aliases(t *testing.T) {
	for alias, want := range map[string]string{
		"ANSI":       "windows-1252",
		"cp1252":     "windows-1252",
		"ISO-8859-1": "latin-1",
		"UTF8":       "utf-8",
	} {
		enc, err := LookupEncoding(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, want, enc.Name, alias)
	}
	assert.Len(t, ListEncodings(), 4)
}

func TestParseDecimal(t *testing.T) {
	v, ok := ParseDecimal(" 1,5 ")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = ParseDecimal("")
	assert.False(t, ok)
	_, ok = ParseDecimal("1,234.5")
	assert.False(t, ok)
}
