package pep508

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	nameRegex     = regexp.MustCompile(`(?i)^([A-Z0-9]|[A-Z0-9][A-Z0-9._-]*[A-Z0-9])$`)
	normalizeRuns = regexp.MustCompile(`[-_.]+`)
)

// Requirement is a parsed dependency specifier.
type Requirement struct {
	Name      string       // Distribution name as written
	Extras    []string     // Requested extras in input order
	Specifier SpecifierSet // Version clauses; empty when unconstrained
	URL       string       // Direct reference; empty when absent
	Marker    *Marker      // Environment marker; nil when absent
}

// ParseError reports a specifier that does not match the grammar.
type ParseError struct {
	Input string // The full specifier being parsed
	Pos   int    // Byte offset where parsing failed
	Msg   string // Description of what was expected
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (at position %d)", e.Msg, e.Pos)
}

// Parse parses a single PEP 508 dependency specifier.
func Parse(s string) (*Requirement, error) {
	p := &parser{src: s}
	return p.requirement()
}

// NormalizeName returns the PEP 503 normalized form of a distribution or
// extra name: lowercase with runs of "-", "_" and "." collapsed to "-".
func NormalizeName(name string) string {
	return strings.ToLower(normalizeRuns.ReplaceAllString(strings.TrimSpace(name), "-"))
}

// ValidName reports whether name is a syntactically valid distribution name.
func ValidName(name string) bool {
	return nameRegex.MatchString(name)
}

// String returns the canonical form of the requirement.
func (r *Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		extras := uniqueSorted(r.Extras)
		b.WriteByte('[')
		b.WriteString(strings.Join(extras, ","))
		b.WriteByte(']')
	}
	if len(r.Specifier) > 0 {
		b.WriteString(r.Specifier.String())
	}
	if r.URL != "" {
		b.WriteString("@ ")
		b.WriteString(r.URL)
		if r.Marker != nil {
			b.WriteByte(' ')
		}
	}
	if r.Marker != nil {
		b.WriteString("; ")
		b.WriteString(r.Marker.String())
	}
	return b.String()
}

// uniqueSorted returns the distinct strings of ss in sorted order.
func uniqueSorted(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	n := 0
	for i, s := range out {
		if i == 0 || s != out[n-1] {
			out[n] = s
			n++
		}
	}
	return out[:n]
}

// NormalizedName returns the PEP 503 normalized distribution name.
func (r *Requirement) NormalizedName() string {
	return NormalizeName(r.Name)
}

type parser struct {
	src string
	pos int
}

func (p *parser) fail(format string, args ...any) error {
	return &ParseError{Input: p.src, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

// ws skips whitespace and reports whether any was consumed.
func (p *parser) ws() bool {
	start := p.pos
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
	return p.pos > start
}

func (p *parser) identifier() string {
	start := p.pos
	for !p.eof() && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '.'
}

func (p *parser) requirement() (*Requirement, error) {
	p.ws()
	start := p.pos
	name := p.identifier()
	if name == "" {
		return nil, p.fail("Expected package name at the start of dependency specifier")
	}
	if !ValidName(name) {
		p.pos = start
		return nil, p.fail("Invalid package name %q", name)
	}
	r := &Requirement{Name: name}

	p.ws()
	if p.peek() == '[' {
		extras, err := p.extras()
		if err != nil {
			return nil, err
		}
		r.Extras = extras
		p.ws()
	}

	if p.peek() == '@' {
		p.pos++
		p.ws()
		start := p.pos
		for !p.eof() && p.src[p.pos] != ' ' && p.src[p.pos] != '\t' {
			p.pos++
		}
		if p.pos == start {
			return nil, p.fail("Expected URL after @")
		}
		r.URL = p.src[start:p.pos]
		if p.eof() {
			return r, nil
		}
		if !p.ws() {
			return nil, p.fail("Expected end or semicolon (after URL and whitespace)")
		}
		if p.eof() {
			return r, nil
		}
		return p.trailingMarker(r, "after URL and whitespace")
	}

	specs, err := p.specifierList()
	if err != nil {
		return nil, err
	}
	r.Specifier = specs
	p.ws()
	if p.eof() {
		return r, nil
	}
	context := "after version specifier"
	if len(specs) == 0 {
		context = "after name and no valid version specifier"
	}
	return p.trailingMarker(r, context)
}

func (p *parser) trailingMarker(r *Requirement, context string) (*Requirement, error) {
	if p.peek() != ';' {
		return nil, p.fail("Expected end or semicolon (%s)", context)
	}
	p.pos++
	m, err := p.marker()
	if err != nil {
		return nil, err
	}
	r.Marker = m
	p.ws()
	if !p.eof() {
		return nil, p.fail("Expected end of marker expression")
	}
	return r, nil
}

func (p *parser) extras() ([]string, error) {
	p.pos++ // [
	extras := []string{}
	p.ws()
	if p.peek() == ']' {
		p.pos++
		return extras, nil
	}
	for {
		p.ws()
		start := p.pos
		name := p.identifier()
		if name == "" || !ValidName(name) {
			p.pos = start
			return nil, p.fail("Expected extra name")
		}
		extras = append(extras, name)
		p.ws()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return extras, nil
		default:
			return nil, p.fail("Expected matching RIGHT_BRACKET for LEFT_BRACKET, after extras")
		}
	}
}

func (p *parser) specifierList() (SpecifierSet, error) {
	parens := false
	if p.peek() == '(' {
		parens = true
		p.pos++
		p.ws()
	}

	var specs SpecifierSet
	if isOperatorStart(p.peek()) {
		for {
			spec, err := p.specifier()
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
			p.ws()
			if p.peek() != ',' {
				break
			}
			p.pos++
			p.ws()
		}
	} else if parens {
		return nil, p.fail("Expected version specifier after LEFT_PARENTHESIS")
	}

	if parens {
		p.ws()
		if p.peek() != ')' {
			return nil, p.fail("Expected matching RIGHT_PARENTHESIS for LEFT_PARENTHESIS, after version specifier")
		}
		p.pos++
	}
	return specs, nil
}

func (p *parser) specifier() (Specifier, error) {
	op := matchOperator(p.src[p.pos:])
	if op == "" {
		return Specifier{}, p.fail("Expected comparison operator")
	}
	p.pos += len(op)
	p.ws()
	start := p.pos
	for !p.eof() && !strings.ContainsRune(" \t,;)", rune(p.src[p.pos])) {
		p.pos++
	}
	version := p.src[start:p.pos]
	if version == "" {
		p.pos = start
		return Specifier{}, p.fail("Expected version after operator %s", op)
	}
	if err := validateVersion(op, version); err != nil {
		p.pos = start
		return Specifier{}, p.fail("Invalid version %q for operator %s: %s", version, op, err)
	}
	return Specifier{Operator: op, Version: version}, nil
}
