// Package sources extracts the requirement list of a named extra from
// Python packaging metadata files.
//
// Each [Source] pairs a directive option with a [Resolver] that knows one
// metadata format and a [Validator] for the option's value. [Table] holds the
// sources in the fixed order the directive scans them:
//
//   - file: a requirements file relative to the package root
//   - setup.cfg: the [options.extras_require] section of setup.cfg
//   - flit: the [tool.flit.metadata.requires-extra] table of pyproject.toml
//   - pyproject: the [project.optional-dependencies] table of pyproject.toml
//
// Resolvers return the raw strings in file order. Validation and sorting
// happen later, in package extras.
//
// All resolvers share the same failure contract: a missing metadata file
// yields an [errors.ErrCodeFileNotFound] error naming the searched location,
// and a missing extra yields an [errors.ErrCodeKeyNotFound] error naming the
// extra and the section that was searched.
package sources
