// Package value defines the runtime values of TJLang programs.
//
// Scalars (Int, Float, Bool, Str, None) are Go values. Containers and
// records are pointers and have reference identity, so the interpreter
// applies Copy wherever the language has value semantics: declaration,
// assignment, argument binding, and container insertion.
package value
