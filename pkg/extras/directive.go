package extras

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/extrasrequire/pkg/errors"
	"github.com/matzehuels/extrasrequire/pkg/observability"
	"github.com/matzehuels/extrasrequire/pkg/rst"
	"github.com/matzehuels/extrasrequire/pkg/sources"
)

// Name is the directive name as written in documents.
const Name = "extras-require"

// DefaultScope is used when the scope option is not given.
const DefaultScope = "module"

const emptyWarning = "No requirements specified! No notice will be shown in the documentation."

// Invocation is one occurrence of the directive in a document.
type Invocation struct {
	DocName       string
	LineNo        int
	ContentOffset int
	Arguments     []string
	Options       []rst.Option
	Content       []string
}

// InvocationFromBlock adapts a scanned block to an Invocation.
func InvocationFromBlock(docname string, b *rst.Block) Invocation {
	return Invocation{
		DocName:       docname,
		LineNo:        b.LineNo,
		ContentOffset: b.ContentOffset,
		Arguments:     b.Arguments,
		Options:       b.Options,
		Content:       b.Content,
	}
}

// OptionSpec returns the validator for every option the directive accepts.
func OptionSpec() map[string]sources.Validator {
	spec := make(map[string]sources.Validator, len(sources.Table)+1)
	for _, src := range sources.Table {
		spec[src.Option] = src.Validate
	}
	spec["scope"] = sources.Unchanged
	return spec
}

// Run executes the directive and returns the nodes that replace it.
//
// On success the result is a target followed by an attention admonition, and
// an Entry is recorded on the build. When the source yields no requirements
// a warning is logged and only the target is returned.
func Run(ctx context.Context, b *Build, inv Invocation) ([]rst.Node, error) {
	nodes, extra, err := run(ctx, b, inv)
	observability.Directive().OnDirective(ctx, inv.DocName, extra, len(nodes) > 1, err)
	if err != nil {
		return nil, errors.At(inv.DocName, inv.LineNo, err)
	}
	return nodes, nil
}

func run(ctx context.Context, b *Build, inv Invocation) ([]rst.Node, string, error) {
	if len(inv.Arguments) != 1 {
		return nil, "", errors.New(errors.ErrCodeInvalidArgument,
			"%s directive: 1 argument(s) required, %d supplied", Name, len(inv.Arguments))
	}
	extra := inv.Arguments[0]
	if err := errors.ValidateExtraName(extra); err != nil {
		return nil, extra, err
	}

	opts, err := parseOptions(inv.Options)
	if err != nil {
		return nil, extra, err
	}

	target := &rst.Target{IDs: []string{fmt.Sprintf("extras_require-%d", b.NewSerialNo("extras_require"))}}

	requirements, err := GetRequirements(ctx, b.Env, extra, opts, inv.Content)
	if err != nil {
		return nil, extra, err
	}

	if len(requirements) == 0 {
		b.Logger.Warn(emptyWarning, "doc", inv.DocName, "line", inv.LineNo, "extra", extra)
		return []rst.Node{target}, extra, nil
	}

	scope := opts["scope"]
	if scope == "" {
		scope = DefaultScope
	}

	content := MakeNodeContent(requirements, b.Env.Project, extra, scope)
	children, err := b.Parser.NestedParse(strings.Split(content, "\n"), inv.ContentOffset)
	if err != nil {
		return nil, extra, errors.Wrap(errors.ErrCodeInternal, err, "cannot parse notice content")
	}
	notice := &rst.Admonition{Kind: "attention", RawSource: content, Children: children}

	b.record(Entry{
		DocName:       inv.DocName,
		LineNo:        inv.LineNo,
		Extra:         extra,
		Requirements:  requirements,
		ExtrasRequire: notice.DeepCopy().(*rst.Admonition),
		Target:        target,
	})
	b.Logger.Debug("rendered extras notice", "doc", inv.DocName, "line", inv.LineNo, "extra", extra,
		"requirements", len(requirements))

	return []rst.Node{target, notice}, extra, nil
}

// parseOptions validates the raw options against OptionSpec.
func parseOptions(raw []rst.Option) (sources.Options, error) {
	spec := OptionSpec()
	opts := make(sources.Options, len(raw))
	for _, o := range raw {
		validate, ok := spec[o.Name]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidOption, "unknown option: %q", o.Name)
		}
		if opts.Has(o.Name) {
			return nil, errors.New(errors.ErrCodeInvalidOption, "duplicate option: %q", o.Name)
		}
		v, err := validate(o.Value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidOption, err, "invalid option value: (option: %q; value: %q)", o.Name, o.Value)
		}
		opts[o.Name] = v
	}
	return opts, nil
}
