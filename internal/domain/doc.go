// Package domain contains the core model for fluidcheck.
//
// The domain does not touch the filesystem, the native FluidSynth library or the
// terminal: infra adapters produce and consume these types.
package domain
