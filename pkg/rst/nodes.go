package rst

// Node is an element of a parsed document fragment.
type Node interface {
	// DeepCopy returns an independent copy of the node and its children.
	DeepCopy() Node
}

// Target is an anchor other documents can reference.
type Target struct {
	IDs []string
}

// DeepCopy implements Node.
func (t *Target) DeepCopy() Node {
	return &Target{IDs: append([]string(nil), t.IDs...)}
}

// Admonition is a titled callout such as "attention" or "note".
type Admonition struct {
	Kind      string // Directive name, e.g. "attention"
	RawSource string // Text the children were parsed from
	Children  []Node
}

// DeepCopy implements Node.
func (a *Admonition) DeepCopy() Node {
	return &Admonition{Kind: a.Kind, RawSource: a.RawSource, Children: copyNodes(a.Children)}
}

// Paragraph is a block of running text. Lines are kept as written.
type Paragraph struct {
	Lines []string
}

// DeepCopy implements Node.
func (p *Paragraph) DeepCopy() Node {
	return &Paragraph{Lines: append([]string(nil), p.Lines...)}
}

// CodeBlock is a literal block with an optional highlighting language.
type CodeBlock struct {
	Language string
	Lines    []string
}

// DeepCopy implements Node.
func (c *CodeBlock) DeepCopy() Node {
	return &CodeBlock{Language: c.Language, Lines: append([]string(nil), c.Lines...)}
}

// BlockQuote is an indented block of nested body elements.
type BlockQuote struct {
	Children []Node
}

// DeepCopy implements Node.
func (b *BlockQuote) DeepCopy() Node {
	return &BlockQuote{Children: copyNodes(b.Children)}
}

func copyNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.DeepCopy()
	}
	return out
}
