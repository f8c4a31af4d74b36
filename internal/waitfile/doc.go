// Package waitfile provides the HCL wait-file format: a declarative list of
// TCP endpoints one gate invocation must see become reachable, plus optional
// polling settings. It is responsible for file parsing and CTY-to-Go data
// binding; precedence against CLI flags is decided by the caller.
package waitfile
