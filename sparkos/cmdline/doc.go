// Package cmdline is a line-oriented command interpreter for serial consoles.
//
// An Assembler collects printable bytes until the terminator arrives and then
// hands out whitespace-delimited tokens. A Router matches the first token of a
// line against its bindings and runs one of three actions: a plain Func, a
// SourceFunc that pulls its own parameters from the Assembler, or a Delegate to
// a nested Router that matches the following token.
//
//	a := cmdline.NewAssembler(cmdline.Config{})
//	root := cmdline.NewRouter(a)
//	cfg := cmdline.NewRouter(a)
//	root.AddHandler("config", cfg)
//	cfg.AddSourceFunc("set", func(a *cmdline.Assembler) { ... })
//
//	for {
//		cmdline.Poll(uart, a, root)
//	}
//
// Nothing in this package returns an error for malformed input: overflowing
// bytes are dropped, an empty line dispatches nothing and an unknown command
// falls through to the default action, if any.
package cmdline
