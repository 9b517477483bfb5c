// Package core defines the shared types used across brief.
//
// Types here are plain data carriers with no behavior beyond small helpers.
// core must not import any other brief package except pkg/token; the
// governance test enforces this so that lint, schema, parser, and state can
// all depend on core without cycles.
package core
