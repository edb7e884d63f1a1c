package pep508

import (
	"strings"
)

// markerVariables maps every accepted environment marker name to the name
// it is rendered as.
var markerVariables = map[string]string{
	"python_version":                 "python_version",
	"python_full_version":            "python_full_version",
	"os_name":                        "os_name",
	"sys_platform":                   "sys_platform",
	"platform_release":               "platform_release",
	"platform_system":                "platform_system",
	"platform_version":               "platform_version",
	"platform_machine":               "platform_machine",
	"platform_python_implementation": "platform_python_implementation",
	"implementation_name":            "implementation_name",
	"implementation_version":         "implementation_version",
	"extra":                          "extra",
	"python_implementation":          "platform_python_implementation",
	"os.name":                        "os.name",
	"sys.platform":                   "sys.platform",
	"platform.version":               "platform.version",
	"platform.machine":               "platform.machine",
	"platform.python_implementation": "platform.python_implementation",
}

// markerOperators ordered so that longer operators match first.
var markerOperators = []string{"===", "~=", "==", "!=", "<=", ">=", "<", ">"}

// Marker is a parsed environment marker expression.
type Marker struct {
	expr markerList
}

// String renders the marker with double quoted values and single spaces
// between terms. Parentheses around single-term groups are dropped.
func (m *Marker) String() string {
	return formatMarker(m.expr, true)
}

// Variables returns the environment variables referenced by the marker in
// order of appearance.
func (m *Marker) Variables() []string {
	var out []string
	var walk func(markerList)
	walk = func(l markerList) {
		for _, n := range l {
			switch v := n.(type) {
			case markerList:
				walk(v)
			case *markerItem:
				for _, val := range []markerValue{v.lhs, v.rhs} {
					if val.variable {
						out = append(out, val.text)
					}
				}
			}
		}
	}
	walk(m.expr)
	return out
}

type markerNode interface{ markerNode() }

// markerList is a flat sequence of atoms separated by boolean operators.
// Parenthesised groups appear as nested lists.
type markerList []markerNode

type markerItem struct {
	lhs markerValue
	op  string
	rhs markerValue
}

type markerBool string

type markerValue struct {
	text     string
	variable bool
}

func (markerList) markerNode()  {}
func (*markerItem) markerNode() {}
func (markerBool) markerNode()  {}

func (v markerValue) String() string {
	if v.variable {
		return v.text
	}
	return `"` + v.text + `"`
}

func formatMarker(n markerNode, first bool) string {
	switch v := n.(type) {
	case markerList:
		// A group of one loses its parentheses at any depth.
		if len(v) == 1 {
			switch v[0].(type) {
			case markerList, *markerItem:
				return formatMarker(v[0], true)
			}
		}
		parts := make([]string, len(v))
		for i, c := range v {
			parts[i] = formatMarker(c, false)
		}
		if first {
			return strings.Join(parts, " ")
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *markerItem:
		return v.lhs.String() + " " + v.op + " " + v.rhs.String()
	case markerBool:
		return string(v)
	}
	return ""
}

func (p *parser) marker() (*Marker, error) {
	expr, err := p.markerExpr()
	if err != nil {
		return nil, err
	}
	return &Marker{expr: expr}, nil
}

func (p *parser) markerExpr() (markerList, error) {
	atom, err := p.markerAtom()
	if err != nil {
		return nil, err
	}
	list := markerList{atom}
	for {
		save := p.pos
		p.ws()
		op := p.keyword("and", "or")
		if op == "" {
			p.pos = save
			return list, nil
		}
		atom, err := p.markerAtom()
		if err != nil {
			return nil, err
		}
		list = append(list, markerBool(op), atom)
	}
}

func (p *parser) markerAtom() (markerNode, error) {
	p.ws()
	if p.peek() == '(' {
		p.pos++
		inner, err := p.markerExpr()
		if err != nil {
			return nil, err
		}
		p.ws()
		if p.peek() != ')' {
			return nil, p.fail("Expected matching RIGHT_PARENTHESIS for LEFT_PARENTHESIS, after marker expression")
		}
		p.pos++
		return inner, nil
	}
	return p.markerItem()
}

func (p *parser) markerItem() (*markerItem, error) {
	p.ws()
	lhs, err := p.markerValue()
	if err != nil {
		return nil, err
	}
	p.ws()
	op, err := p.markerOp()
	if err != nil {
		return nil, err
	}
	p.ws()
	rhs, err := p.markerValue()
	if err != nil {
		return nil, err
	}
	if lhs.variable && lhs.text == "extra" && !rhs.variable {
		rhs.text = NormalizeName(rhs.text)
	}
	return &markerItem{lhs: lhs, op: op, rhs: rhs}, nil
}

func (p *parser) markerValue() (markerValue, error) {
	switch q := p.peek(); q {
	case '"', '\'':
		p.pos++
		end := strings.IndexByte(p.src[p.pos:], q)
		if end < 0 {
			return markerValue{}, p.fail("Expected matching closing quote")
		}
		text := p.src[p.pos : p.pos+end]
		p.pos += end + 1
		return markerValue{text: text}, nil
	}

	start := p.pos
	for !p.eof() && (isIdentByte(p.src[p.pos])) {
		p.pos++
	}
	word := p.src[start:p.pos]
	canonical, ok := markerVariables[word]
	if !ok {
		p.pos = start
		return markerValue{}, p.fail("Expected a marker variable or quoted string")
	}
	return markerValue{text: canonical, variable: true}, nil
}

func (p *parser) markerOp() (string, error) {
	for _, op := range markerOperators {
		if strings.HasPrefix(p.src[p.pos:], op) {
			p.pos += len(op)
			return op, nil
		}
	}
	if p.keyword("in") != "" {
		return "in", nil
	}
	save := p.pos
	if p.keyword("not") != "" {
		p.ws()
		if p.keyword("in") != "" {
			return "not in", nil
		}
	}
	p.pos = save
	return "", p.fail("Expected marker operator, one of <=, <, !=, ==, >=, >, ~=, ===, in, not in")
}

// keyword consumes one of words if it appears at the cursor as a whole word.
func (p *parser) keyword(words ...string) string {
	for _, w := range words {
		if !strings.HasPrefix(p.src[p.pos:], w) {
			continue
		}
		end := p.pos + len(w)
		if end < len(p.src) && isIdentByte(p.src[end]) {
			continue
		}
		p.pos = end
		return w
	}
	return ""
}
