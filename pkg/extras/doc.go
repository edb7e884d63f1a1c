// Package extras implements the extras-require directive.
//
// The directive renders a notice telling readers that a module, class or
// function needs an optional dependency group ("extra") to be installed:
//
//	.. extras-require:: test
//	    :flit:
//	    :scope: package
//
// The requirement list comes from exactly one source: the directive body or
// one of the named resolvers in package sources. Every requirement is parsed
// as a PEP 508 specifier ([ValidateRequirements]), sorted by name and
// formatted into an "attention" admonition ([MakeNodeContent]).
//
// Directives never reach for global state. A [Build] is created per
// documentation build and passed to every [Run]; it owns the serial counter
// for target ids and the list of rendered notices consumed by [Summarize].
package extras
