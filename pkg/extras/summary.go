package extras

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/matzehuels/extrasrequire/pkg/rst"
)

// DocSummary groups the notices of one document.
type DocSummary struct {
	DocName string
	Entries []Entry
}

// Summarize groups entries by document, ordered by document name and then
// by line number.
func Summarize(entries []Entry) []DocSummary {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DocName != sorted[j].DocName {
			return sorted[i].DocName < sorted[j].DocName
		}
		return sorted[i].LineNo < sorted[j].LineNo
	})

	var out []DocSummary
	for _, e := range sorted {
		if n := len(out); n > 0 && out[n-1].DocName == e.DocName {
			out[n-1].Entries = append(out[n-1].Entries, e)
			continue
		}
		out = append(out, DocSummary{DocName: e.DocName, Entries: []Entry{e}})
	}
	return out
}

// SummaryNodes builds the "all extras" listing: one section per document
// holding a copy of each notice and a reference back to its target.
func SummaryNodes(title string, entries []Entry) []rst.Node {
	nodes := []rst.Node{&rst.Paragraph{Lines: heading(title, "=")}}
	for _, doc := range Summarize(entries) {
		nodes = append(nodes, &rst.Paragraph{Lines: heading(doc.DocName, "-")})
		for _, e := range doc.Entries {
			nodes = append(nodes, e.ExtrasRequire.DeepCopy())
			ref := doc.DocName
			if len(e.Target.IDs) > 0 {
				ref = fmt.Sprintf(":ref:`%s, line %d <%s>`", doc.DocName, e.LineNo, e.Target.IDs[0])
			}
			nodes = append(nodes, &rst.Paragraph{Lines: []string{
				fmt.Sprintf("(The original entry for ``%s`` is located in %s.)", e.Extra, ref),
			}})
		}
	}
	return nodes
}

// RenderSummary writes SummaryNodes as reStructuredText.
func RenderSummary(w io.Writer, title string, entries []Entry) error {
	return rst.Write(w, SummaryNodes(title, entries))
}

func heading(text, underline string) []string {
	return []string{text, strings.Repeat(underline, len(text))}
}
