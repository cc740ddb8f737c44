// Package ast declares the syntax tree of TJLang programs.
//
// Every node records its source span. The tree is immutable once built by
// the parser; later passes read it and keep any derived data elsewhere.
//
// The package also provides traversal ([Inspect], [Children]), a canonical
// source printer ([Format], [Source]) such that parsing printed output
// reproduces the same tree, and structured dumps ([ToMap], [FormatJSON],
// [FormatYAML], [Dump]).
package ast
