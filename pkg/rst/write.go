package rst

import (
	"fmt"
	"io"
	"strings"
)

// Write renders nodes as reStructuredText, separating blocks with a blank line.
func Write(w io.Writer, nodes []Node) error {
	lines, err := Lines(nodes)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Lines renders nodes as reStructuredText lines without a trailing blank line.
func Lines(nodes []Node) ([]string, error) {
	var out []string
	for i, n := range nodes {
		if i > 0 {
			out = append(out, "")
		}
		lines, err := nodeLines(n)
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}
	return out, nil
}

func nodeLines(n Node) ([]string, error) {
	switch v := n.(type) {
	case *Target:
		lines := make([]string, len(v.IDs))
		for i, id := range v.IDs {
			lines[i] = ".. _" + id + ":"
		}
		return lines, nil
	case *Admonition:
		body, err := Lines(v.Children)
		if err != nil {
			return nil, err
		}
		return append([]string{".. " + v.Kind + "::", ""}, indentLines(body, 3)...), nil
	case *Paragraph:
		return append([]string(nil), v.Lines...), nil
	case *CodeBlock:
		head := strings.TrimSpace(".. code-block:: " + v.Language)
		if v.Language == "" {
			head = ".. code-block::"
		}
		return append([]string{head, ""}, indentLines(v.Lines, 4)...), nil
	case *BlockQuote:
		body, err := Lines(v.Children)
		if err != nil {
			return nil, err
		}
		return indentLines(body, 4), nil
	}
	return nil, fmt.Errorf("rst: cannot write node of type %T", n)
}

func indentLines(lines []string, n int) []string {
	pad := strings.Repeat(" ", n)
	out := make([]string, len(lines))
	for i, l := range lines {
		if l != "" {
			out[i] = pad + l
		}
	}
	return out
}
