// Package config discovers workflow declaration files and turns them into a
// format-agnostic model.Definition.
//
// The Loader is format-agnostic: it walks the configured paths on a
// billy.Filesystem and hands each file to the Decoder registered for its
// extension. Concrete decoders, such as for HCL and YAML, are provided in
// separate packages.
package config
