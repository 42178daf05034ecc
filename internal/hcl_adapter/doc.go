// Package hcl_adapter decodes HCL workflow files into model definitions.
//
// A file may contain at most one `workflow` block and any number of `job`
// blocks:
//
//	workflow "ci" {
//	  required_version = ">= 0.4.0"
//	}
//
//	job "cargo-test" {
//	  platform  = matrix.os
//	  fail_fast = false
//	  env       = { RUST_BACKTRACE = "1" }
//
//	  matrix {
//	    os       = ["ubuntu-latest", "windows-latest"]
//	    features = ["--all-features", "--no-default-features --lib"]
//
//	    exclude {
//	      os       = "windows-latest"
//	      features = "--all-features"
//	    }
//	  }
//
//	  cache {
//	    key   = "cargo"
//	    paths = ["~/.cargo/registry", "target"]
//	  }
//
//	  step "test" {
//	    run = "cargo test"
//	  }
//	}
//
// Matrix axes keep their source order. Axis and exclude values may be any
// primitive and are converted to strings.
package hcl_adapter
