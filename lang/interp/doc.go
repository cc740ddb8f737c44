// Package interp executes TJLang programs by walking their syntax trees.
//
// An [Interpreter] evaluates the top-level statements of a file in order
// against a [decl.Table] built from the same file. Values are copied on
// assignment, on argument binding, and on insertion into containers; the
// self receiver of an impl method is the only reference binding.
//
// Method calls dispatch on the runtime type tag of the receiver: a method
// from an impl block wins over the built-in method of the same name.
// Binary and unary operators are looked up the same way under the names
// add, sub, mul, div, mod, pow, eq, ne, lt, gt, le, ge, bitand, bitor,
// bitxor, shl, shr, neg, not, and bitnot before the built-in semantics
// apply.
//
// Runtime failures and raise statements travel as [*Error]. A function
// declared to return a Result converts them to Err values; anywhere else
// they end the run.
//
// The spawn expression evaluates its operand on a separate goroutine
// against a snapshot of the visible bindings. [Interpreter.Wait] blocks
// until every spawned task has finished.
package interp
