// Package main provides the adaptergen CLI.
//
// The CLI supports:
//   - generate: Emit the adapter factory for the type marked //adaptergen:factory
//   - watch: Regenerate the factory whenever package sources change
//   - descriptors: Print the adapter descriptors a run would use
//   - config show: Print the effective configuration
//
// Usage:
//
//	adaptergen [flags] <command>
//
// It is usually run from a //go:generate line in the package that declares
// the factory.
package main

func main() {
	Execute()
}
