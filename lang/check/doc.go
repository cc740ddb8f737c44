// Package check is the static analyzer. It runs a fixed set of independent
// checks over a parsed file and its declaration table and merges their
// diagnostics in source order.
//
// The default checks are:
//
//	bounds          A2800  literal index outside a literal vector or tuple
//	divide-by-zero  A2801  division or modulo by a literal zero
//	undefined       A2803  unknown name, unknown function, wrong arity
//	module-methods  A2804  unknown member of a host module
//	unused-variable A2810  local variable never read (warning)
//	unreachable     A2811  statements after return, break, continue, or raise (warning)
//
// Checks report only what the syntax proves. A computed zero divisor or an
// index into a variable is left to the evaluator.
package check
