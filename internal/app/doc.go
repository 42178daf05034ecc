// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle (load, validate, expand,
// resolve, render, dispatch), decoupled from any specific entrypoint like a
// CLI.
package app
