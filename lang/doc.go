// Package lang is the pipeline facade of the TJLang toolchain.
//
// A source file passes through four stages:
//
//	source ─▶ parser.Parse ─▶ decl.Build ─▶ check.Run ─▶ interp.Run
//
// [Compile] performs the first two and returns a [Program]. Parsing is
// cached by a hash of the source name and text, so recompiling unchanged
// input is cheap. [Program.Check] adds the static analysis, and
// [Program.Run] refuses to execute a program that has any error
// diagnostic.
//
// # Diagnostics and errors
//
// Language diagnostics are data, returned as [diag.List] and rendered by
// [diag.Renderer]. The Go errors returned here only summarize them:
//
//   - [ErrSyntax]: the source has lexical or grammar errors
//   - [ErrStatic]: the program failed static analysis
//   - [ErrRuntime]: execution stopped on an uncaught raise or runtime
//     failure; [RuntimeDiagnostic] recovers its diagnostic
//
// Each carries a count or code attribute for structured logging.
//
// # Example
//
//	prog, err := lang.Compile(ctx, "hello.tj", `println("hello")`)
//	if err != nil {
//		return err
//	}
//
//	if diags := prog.Check(); diags.HasErrors() {
//		return diag.NewRenderer(prog.Name, prog.Source).Render(os.Stderr, diags)
//	}
//
//	return prog.Run(ctx, interp.WithStdout(os.Stdout))
package lang
