// Package command runs the external tools of the pipeline.
//
// A Command is the argv form of a tool invocation. An Environment describes
// the pre-configured execution context (conda environment, installation
// prefix) the tool must run in; Environment.Wrap turns a Command into the
// Invocation that is actually spawned. Every environment-scoped step gets its
// own isolated invocation, so no activation state is carried from one step
// to the next.
//
// The Runner logs the composed command, forwards the child's output line by
// line to the structured logger and blocks until the child exits. It never
// retries and applies no timeout; a non-zero exit is reported as a
// *CommandError.
package command
