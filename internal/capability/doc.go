// Package capability provides the pluggable capability layer for Sundial
// Core.
//
// A capability is one automatable subsystem (keyboard backlight, display)
// exposing a fixed set of named, parameterized actions. Each implements
// the Capability contract: a static Descriptor (identity, versioned action
// schemas with typed parameter specs), Execute, a Compatibility check, and
// a Cleanup hook. Concrete variants are selected from a constructor table
// by static identifier string.
//
// The Registry runs discovery at startup: every known constructor is
// instantiated, its descriptor invariants checked, and only capabilities
// reporting compatible=true are retained. Invocations route through
// Registry.Invoke, which wraps failures as ErrExecutionFailed.
//
// Parameter values are dynamically typed. Value is a closed variant type
// (string | integer | float | boolean | null | list | map) with safe
// accessor methods; capabilities validate incoming maps against their
// ParamSpecs inside Execute and fail with a descriptive error on mismatch.
//
// The built-in capabilities do not touch hardware in-process: they publish
// JSON commands onto the MQTT command bus (sundial/command/{capability})
// for an external bridge to apply.
package capability
