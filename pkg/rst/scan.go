package rst

import (
	"bufio"
	"regexp"
	"strings"
)

// Option is a directive option in source order.
type Option struct {
	Name  string
	Value string
}

// Block is a directive occurrence found by Scan.
type Block struct {
	Name          string
	Arguments     []string
	Options       []Option
	Content       []string // Body lines, dedented
	LineNo        int      // 1-based line of the directive marker
	ContentOffset int      // 0-based line index of the first body line
	Indent        int      // Indentation of the directive marker
	Start, End    int      // Line range [Start, End) occupied by the block
}

var optionRegex = regexp.MustCompile(`^:([^:\s][^:]*):(?:\s+(.*))?$`)

// SplitLines splits a document into lines without line terminators.
func SplitLines(src string) []string {
	var lines []string
	s := bufio.NewScanner(strings.NewReader(src))
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		lines = append(lines, strings.ReplaceAll(s.Text(), "\t", "        "))
	}
	return lines
}

var (
	// literalDirectiveRegex matches directives whose body is not parsed as
	// reStructuredText.
	literalDirectiveRegex = regexp.MustCompile(`^\s*\.\.\s+(?:code-block|code|sourcecode|parsed-literal|literalinclude|raw|math|doctest|testcode|testoutput|testsetup|testcleanup)::`)

	// explicitMarkupRegex matches markup that is not a comment: directives,
	// hyperlink targets, footnotes, citations and substitution definitions.
	explicitMarkupRegex = regexp.MustCompile(`^\s*\.\.\s+(?:[\w.+:-]+::|_|\[|\|)`)
)

// Scan returns every occurrence of the named directive in lines.
// Occurrences inside literal blocks, literal directives and comments are
// text, not markup, and are skipped.
func Scan(lines []string, name string) []*Block {
	marker := regexp.MustCompile(`^(\s*)\.\.\s+` + regexp.QuoteMeta(name) + `::(?:\s+(.*))?$`)

	var blocks []*Block
	for i := 0; i < len(lines); i++ {
		m := marker.FindStringSubmatch(lines[i])
		if m == nil {
			if literalStart(lines[i]) {
				i = blockEnd(lines, i+1, indent(lines[i])) - 1
			}
			continue
		}
		b := &Block{
			Name:      name,
			Arguments: strings.Fields(m[2]),
			LineNo:    i + 1,
			Indent:    len(m[1]),
			Start:     i,
		}
		end := blockEnd(lines, i+1, b.Indent)
		b.End = end
		parseBlock(b, lines[i+1:end], i+1)
		blocks = append(blocks, b)
		i = end - 1
	}
	return blocks
}

// literalStart reports whether the lines indented below line are literal
// text: the body of a literal directive or a comment, or the literal block
// introduced by text ending in "::".
func literalStart(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed != ".." && !strings.HasPrefix(trimmed, ".. ") {
		return strings.HasSuffix(trimmed, "::")
	}
	if literalDirectiveRegex.MatchString(line) {
		return true
	}
	loc := explicitMarkupRegex.FindStringIndex(line)
	if loc == nil {
		return true // comment
	}
	// ".. note:: Example::" starts its content with a literal block.
	rest := strings.TrimSpace(line[loc[1]:])
	return strings.HasSuffix(rest, "::")
}

func parseBlock(b *Block, body []string, first int) {
	j := 0
	for ; j < len(body) && !isBlank(body[j]); j++ {
		line := strings.TrimSpace(body[j])
		if m := optionRegex.FindStringSubmatch(line); m != nil {
			b.Options = append(b.Options, Option{Name: m[1], Value: strings.TrimSpace(m[2])})
			continue
		}
		if len(b.Options) > 0 {
			// Continuation of the previous option's value.
			last := &b.Options[len(b.Options)-1]
			last.Value = strings.TrimSpace(last.Value + " " + line)
			continue
		}
		b.Arguments = append(b.Arguments, strings.Fields(line)...)
	}
	for j < len(body) && isBlank(body[j]) {
		j++
	}
	if j < len(body) {
		b.ContentOffset = first + j
		b.Content = dedent(trimBlank(body[j:]))
	}
}

// Splice replaces each block's lines with its rendering, indented to the
// block's own indentation. rendered[i] belongs to blocks[i]; blocks must be
// in document order and must not overlap.
func Splice(lines []string, blocks []*Block, rendered [][]string) []string {
	out := make([]string, 0, len(lines))
	prev := 0
	for i, b := range blocks {
		out = append(out, lines[prev:b.Start]...)
		out = append(out, indentLines(rendered[i], b.Indent)...)
		prev = b.End
	}
	return append(out, lines[prev:]...)
}
