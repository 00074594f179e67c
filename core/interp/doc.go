// Package interp is the shell's execution core. It turns a tokenized
// command line into a pipeline of stages, wires their standard streams
// through real pipes, dispatches each stage to a builtin handler or an
// external process, and supervises the run until every stage has
// terminated.
//
// The package deliberately knows nothing about line editing, prompts,
// or individual command semantics. Front ends hand it tokens plus a
// Registry of builtins and get back per-stage exit codes.
package interp
