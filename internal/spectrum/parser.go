package spectrum

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/soltixdb/spectrocal/internal/logging"
	"github.com/soltixdb/spectrocal/internal/models"
)

// DefaultDelimiters is the delimiter priority: single space, tab, double space
var DefaultDelimiters = []string{" ", "\t", "  "}

// Options configures candidate encodings and delimiters, tried in order
type Options struct {
	Encodings  []string
	Delimiters []string
}

// DefaultOptions returns the standard candidate lists
func DefaultOptions() Options {
	return Options{
		Encodings:  append([]string(nil), DefaultEncodings...),
		Delimiters: append([]string(nil), DefaultDelimiters...),
	}
}

// Result describes one parse. Series is empty whenever Err is set.
type Result struct {
	Path      string
	Series    RawSeries
	Encoding  string
	Delimiter string
	Lines     int // non-blank lines seen
	Skipped   int // non-blank lines that did not yield a sample
	Err       error
}

// Kind returns the failure kind, or "" when the parse succeeded
func (r *Result) Kind() models.FailureKind {
	return models.KindOf(r.Err)
}

// Parser turns raw measurement files into RawSeries
type Parser struct {
	encodings  []Encoding
	delimiters []string
	logger     *logging.Logger
}

// NewParser creates a parser. Empty candidate lists fall back to the defaults.
func NewParser(opts Options, logger *logging.Logger) (*Parser, error) {
	if len(opts.Encodings) == 0 {
		opts.Encodings = DefaultEncodings
	}
	if len(opts.Delimiters) == 0 {
		opts.Delimiters = DefaultDelimiters
	}
	if logger == nil {
		logger = logging.Global()
	}

	encodings := make([]Encoding, 0, len(opts.Encodings))
	for _, name := range opts.Encodings {
		enc, err := LookupEncoding(name)
		if err != nil {
			return nil, err
		}
		encodings = append(encodings, enc)
	}

	for _, d := range opts.Delimiters {
		if d == "" {
			return nil, fmt.Errorf("empty delimiter candidate")
		}
	}

	return &Parser{
		encodings:  encodings,
		delimiters: append([]string(nil), opts.Delimiters...),
		logger:     logger,
	}, nil
}

// ParseFile reads and parses one file. Failures are reported in Result.Err and
// also returned, so callers can skip or abort per their own policy.
func (p *Parser) ParseFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		res := &Result{
			Path: path,
			Err: models.NewAnalysisErrorWithDetails(models.FailureFileUnreadable,
				fmt.Sprintf("failed to read %s: %v", path, err),
				map[string]interface{}{"path": path}),
		}
		return res, res.Err
	}
	return p.ParseBytes(path, data)
}

// ParseBytes parses already loaded file content; name is used for reporting only
func (p *Parser) ParseBytes(name string, data []byte) (*Result, error) {
	res := &Result{Path: name}

	encRes, text := p.resolveEncoding(data)
	enc, ok := encRes.Value()
	if !ok {
		res.Err = encRes.Err()
		p.logger.Debug("Encoding unresolved", "path", name)
		return res, res.Err
	}
	res.Encoding = enc.Name

	var (
		x, y      []float64
		delimiter models.Resolution[string]
	)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		res.Lines++

		if !delimiter.IsResolved() {
			delimiter = p.resolveDelimiter(line)
			if !delimiter.IsResolved() {
				res.Skipped++
				continue
			}
		}

		sep, _ := delimiter.Value()
		xv, yv, ok := parsePair(line, sep)
		if !ok {
			res.Skipped++
			continue
		}
		x = append(x, xv)
		y = append(y, yv)
	}
	if err := scanner.Err(); err != nil {
		res.Err = models.NewAnalysisErrorf(models.FailureFileUnreadable, "failed to scan %s: %v", name, err)
		return res, res.Err
	}

	switch {
	case res.Lines == 0:
		res.Err = models.NewAnalysisErrorf(models.FailureEmptySeries, "%s contains no data lines", name)
	case !delimiter.IsResolved():
		res.Err = models.NewAnalysisErrorf(models.FailureDelimiterUnresolved,
			"%s: no candidate delimiter yields two numeric fields", name)
	case len(x) == 0:
		res.Err = models.NewAnalysisErrorf(models.FailureEmptySeries, "%s: no valid data lines", name)
	}
	if res.Err != nil {
		p.logger.Debug("Parse failed", "path", name, "kind", string(res.Kind()))
		return res, res.Err
	}

	res.Delimiter, _ = delimiter.Value()
	res.Series = RawSeries{X: x, Y: y}

	p.logger.Debug("Parsed series",
		"path", name,
		"encoding", res.Encoding,
		"delimiter", strconv.Quote(res.Delimiter),
		"samples", len(x),
		"skipped", res.Skipped)

	return res, nil
}

func (p *Parser) resolveEncoding(data []byte) (models.Resolution[Encoding], string) {
	for _, enc := range p.encodings {
		text, err := enc.Decode(data)
		if err == nil {
			return models.Resolved(enc), text
		}
	}
	return models.Unresolved[Encoding](models.FailureEncodingUnresolved), ""
}

// resolveDelimiter returns the first candidate whose split of line yields two numeric fields
func (p *Parser) resolveDelimiter(line string) models.Resolution[string] {
	for _, sep := range p.delimiters {
		if _, _, ok := parsePair(line, sep); ok {
			return models.Resolved(sep)
		}
	}
	return models.Unresolved[string](models.FailureDelimiterUnresolved)
}

// parsePair splits line on sep and parses the first two fields
func parsePair(line, sep string) (float64, float64, bool) {
	parts := strings.Split(line, sep)
	if len(parts) < 2 {
		return 0, 0, false
	}
	x, ok := ParseDecimal(parts[0])
	if !ok {
		return 0, 0, false
	}
	y, ok := ParseDecimal(parts[1])
	if !ok {
		return 0, 0, false
	}
	return x, y, true
}

// ParseDecimal parses a number accepting ',' as the decimal separator.
// Non-finite values are rejected.
func ParseDecimal(field string) (float64, bool) {
	field = strings.TrimSpace(strings.ReplaceAll(field, ",", "."))
	if field == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
