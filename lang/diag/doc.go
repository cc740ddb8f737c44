// Package diag defines TJLang diagnostics: stable codes, the Diagnostic
// record with its span and optional note, ordered lists, and the renderer
// that prints the span-annotated text form:
//
//	error[A2801]: Literal division by zero detected
//	  ┌─ main.tj:1:10
//	  │
//	1 │ x: int = 10 / 0
//	  │          ^^^^^^
//	  │
//	  = Division by zero will cause a runtime panic
//
// Lists are always rendered in source order of their primary spans.
package diag
