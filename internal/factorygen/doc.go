// Package factorygen generates the adapter factory dispatcher for a program.
//
// # Overview
//
// A program marks one type with the //adaptergen:factory directive. For that
// type the generator emits a factory whose Create method maps the raw
// identity of a requested adapt.Type to the constructor of a previously
// generated adapter, or returns nil so another factory can answer.
//
// # Architecture
//
// Generation for one round runs in four stages:
//
//  1. Validation (Step.Process): zero designated types is a no-op, more than
//     one is reported as a single error diagnostic, exactly one is generated.
//  2. Shape (ResolveShape): an interface type that already embeds
//     adapt.Factory is extended (embedded by the generated struct); anything
//     else gets a fresh struct implementing adapt.Factory.
//  3. Dispatch (BuildDispatchTable): one branch per descriptor in the frozen
//     descriptor.Store, ordered by generated adapter name, keyed by raw target
//     type, with the constructor arguments each adapter needs.
//  4. Emission (Renderer, Filer): the artifact description is rendered by a
//     registered renderer ("go" by default) and written next to the
//     designated type.
//
// The dispatch table is independent of the output syntax: renderers only see
// the Artifact description.
//
// # Errors
//
// Problems with the designated type or the descriptors it would dispatch to
// are ProcessingErrors. Step.Process reports them as diagnostics against the
// offending element and carries on. Only failures to write the output are
// returned to the caller.
package factorygen
