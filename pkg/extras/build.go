package extras

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/extrasrequire/pkg/rst"
	"github.com/matzehuels/extrasrequire/pkg/sources"
)

// Entry records one rendered notice for the end-of-build summary.
type Entry struct {
	DocName       string          // Document containing the directive
	LineNo        int             // Line of the directive marker
	Extra         string          // Name of the extra
	Requirements  []string        // Canonical requirements shown in the notice
	ExtrasRequire *rst.Admonition // Deep copy of the rendered notice
	Target        *rst.Target     // Anchor emitted before the notice
}

// Build is the state shared by all directives of one documentation build.
// It is not safe for concurrent use; builds run directives sequentially.
type Build struct {
	Env    *sources.Env
	Logger *log.Logger
	Parser rst.NestedParser

	serials map[string]int
	entries []Entry
}

// NewBuild creates the context for a single build.
// If logger is nil, log.Default() is used.
func NewBuild(env *sources.Env, logger *log.Logger) *Build {
	if logger == nil {
		logger = log.Default()
	}
	return &Build{
		Env:     env,
		Logger:  logger,
		Parser:  rst.BlockParser{},
		serials: make(map[string]int),
	}
}

// NewSerialNo returns the next number in category, starting at 0.
func (b *Build) NewSerialNo(category string) int {
	n := b.serials[category]
	b.serials[category] = n + 1
	return n
}

// Entries returns the recorded notices in the order they were rendered.
func (b *Build) Entries() []Entry {
	return slices.Clone(b.entries)
}

func (b *Build) record(e Entry) {
	b.entries = append(b.entries, e)
}

// PurgeDoc drops the entries of a document that is about to be re-read.
func (b *Build) PurgeDoc(docname string) {
	b.entries = slices.DeleteFunc(b.entries, func(e Entry) bool {
		return e.DocName == docname
	})
}

// Fork returns an empty build for reading one document. It shares b's
// environment, parser and serial numbers, so target ids stay unique once
// its entries are merged back with MergeFrom.
func (b *Build) Fork() *Build {
	return &Build{Env: b.Env, Logger: b.Logger, Parser: b.Parser, serials: b.serials}
}

// MergeFrom copies other's entries for the given documents into b.
// It is used when documents were read into separate builds.
func (b *Build) MergeFrom(other *Build, docnames []string) {
	for _, e := range other.entries {
		if slices.Contains(docnames, e.DocName) {
			b.record(e)
		}
	}
}
