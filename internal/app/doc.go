// Package app contains the core application logic. It defines the gate's
// configuration, the App struct, and the primary execution lifecycle,
// decoupled from any specific entrypoint like a CLI.
package app
