// Package pkg provides the core libraries for extrasrequire.
//
// # Overview
//
// Extrasrequire documents the optional dependencies ("extras") of a Python
// package. An extras-require directive in a reStructuredText document names
// an extra and a metadata source; the directive is replaced by a notice
// listing the extra's requirements and the pip command that installs them.
// The pkg directory is organized into these areas:
//
//  1. [pep508] - Dependency specifier parsing and normalization
//  2. [sources] - Readers for setup.cfg, pyproject.toml and requirements files
//  3. [extras] - The directive itself: source selection, validation, notices
//  4. [rst] - The small reStructuredText model the notices are built from
//  5. [pipeline] - Orchestration over a documentation tree (scan → resolve → write)
//
// # Architecture
//
// The data flow for one directive:
//
//	.. extras-require:: test
//	    :flit:
//	         ↓
//	    [rst] package (scan the document for directive blocks)
//	         ↓
//	    [sources] package (read the extra from pyproject.toml)
//	         ↓
//	    [pep508] package (validate and normalize each requirement)
//	         ↓
//	    [extras] package (build the notice and record it on the build)
//	         ↓
//	    expanded document + summary of all extras
//
// # Quick Start
//
// Render the notice for one extra:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/extrasrequire/pkg/extras"
//	    "github.com/matzehuels/extrasrequire/pkg/rst"
//	    "github.com/matzehuels/extrasrequire/pkg/sources"
//	)
//
//	env := &sources.Env{SrcDir: "doc-source", PackageRoot: "foobar", Project: "FooBar"}
//	b := extras.NewBuild(env, nil)
//	nodes, _ := extras.Run(context.Background(), b, extras.Invocation{
//	    DocName:   "api",
//	    LineNo:    1,
//	    Arguments: []string{"test"},
//	    Options:   []rst.Option{{Name: "flit"}},
//	})
//	rst.Write(os.Stdout, nodes)
//
// # Supporting Packages
//
// [errors] - Structured error codes shared by every package and the CLI.
//
// [observability] - Hooks for source resolution, directive and build events.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/extras/...    # Specific package
//	go test -run Example ./...  # Examples only
//
// [pep508]: https://pkg.go.dev/github.com/matzehuels/extrasrequire/pkg/pep508
// [sources]: https://pkg.go.dev/github.com/matzehuels/extrasrequire/pkg/sources
// [extras]: https://pkg.go.dev/github.com/matzehuels/extrasrequire/pkg/extras
// [rst]: https://pkg.go.dev/github.com/matzehuels/extrasrequire/pkg/rst
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/extrasrequire/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/extrasrequire/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/extrasrequire/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/extrasrequire/pkg/buildinfo
package pkg
