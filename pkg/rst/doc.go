// Package rst is a small reStructuredText document model.
//
// It covers what the extras-require directive needs from a document build:
// locating directive blocks in a source file ([Scan]), parsing generated
// notice text into nodes ([BlockParser]) and writing nodes back out as
// reStructuredText ([Write]). It is not a general reST parser; inline markup,
// sections and tables pass through untouched because documents are only
// rewritten at directive boundaries ([Splice]).
package rst
