// Package decl builds the declaration table: the program-wide registry of
// functions, types, interfaces, and impl blocks that later passes consult
// read-only.
//
// Functions, interfaces, and types (structs, enums, aliases) occupy three
// separate namespaces. A second declaration of a name in the same namespace
// is reported and ignored; the builder continues so every duplicate in a
// file is reported in one pass. Methods are keyed by the runtime type tag of
// the impl target, so a method name may be declared once per type no matter
// how many impl blocks the type has.
package decl
