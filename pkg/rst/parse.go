package rst

import (
	"fmt"
	"regexp"
	"strings"
)

var codeBlockRegex = regexp.MustCompile(`^\.\.\s+(?:code-block|code|sourcecode)::\s*(\S*)\s*$`)

// NestedParser turns directive-generated text into body nodes.
// offset is the source line the text is attributed to, for error messages.
type NestedParser interface {
	NestedParse(lines []string, offset int) ([]Node, error)
}

// BlockParser parses paragraphs, code-block directives and block quotes.
type BlockParser struct{}

// NestedParse implements NestedParser.
func (BlockParser) NestedParse(lines []string, offset int) ([]Node, error) {
	return parseBody(lines, offset)
}

func parseBody(lines []string, offset int) ([]Node, error) {
	var nodes []Node
	i := 0
	for i < len(lines) {
		line := lines[i]
		if isBlank(line) {
			i++
			continue
		}

		if indent(line) > 0 {
			end := blockEnd(lines, i, 0)
			children, err := parseBody(dedent(lines[i:end]), offset+i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, &BlockQuote{Children: children})
			i = end
			continue
		}

		if m := codeBlockRegex.FindStringSubmatch(line); m != nil {
			end := blockEnd(lines, i+1, 0)
			body := trimBlank(lines[i+1 : end])
			if len(body) == 0 {
				return nil, fmt.Errorf("line %d: code-block without content", offset+i+1)
			}
			nodes = append(nodes, &CodeBlock{Language: m[1], Lines: dedent(body)})
			i = end
			continue
		}

		if strings.HasPrefix(line, "..") {
			return nil, fmt.Errorf("line %d: unsupported markup %q", offset+i+1, strings.TrimSpace(line))
		}

		start := i
		for i < len(lines) && !isBlank(lines[i]) && indent(lines[i]) == 0 {
			i++
		}
		nodes = append(nodes, &Paragraph{Lines: append([]string(nil), lines[start:i]...)})
	}
	return nodes, nil
}

// blockEnd returns the index after the last line indented deeper than
// parent, starting at from. Blank lines inside the block are included but
// trailing ones are not.
func blockEnd(lines []string, from, parent int) int {
	end := from
	for j := from; j < len(lines); j++ {
		if isBlank(lines[j]) {
			continue
		}
		if indent(lines[j]) <= parent {
			break
		}
		end = j + 1
	}
	return end
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func indent(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

// dedent removes the common leading indentation of non-blank lines.
func dedent(lines []string) []string {
	least := -1
	for _, l := range lines {
		if isBlank(l) {
			continue
		}
		if n := indent(l); least < 0 || n < least {
			least = n
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if isBlank(l) {
			out[i] = ""
			continue
		}
		out[i] = l[least:]
	}
	return out
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return lines
}
