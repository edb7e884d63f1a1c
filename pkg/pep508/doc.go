// Package pep508 parses Python dependency specifiers.
//
// A dependency specifier names a distribution and optionally restricts which
// of its extras, versions or environments apply:
//
//	requests[security,socks] >=2.8.1, ==2.8.*; python_version < "3.8"
//	pip @ https://github.com/pypa/pip/archive/1.3.1.zip
//
// [Parse] validates a specifier against the grammar in PEP 508 and returns a
// [Requirement]. [Requirement.String] renders the canonical form used by the
// Python packaging library: spaces are removed around version clauses, extras
// and version clauses are sorted, and marker values are double quoted.
//
//	r, err := pep508.Parse("pytest >=2.7.3")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(r) // pytest>=2.7.3
//
// Versions inside clauses are checked against the PEP 440 version syntax but
// are otherwise kept exactly as written; no version comparison is performed.
package pep508
