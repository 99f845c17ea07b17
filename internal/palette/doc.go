// Package palette builds the candidate color set for a conversion and
// provides nearest-color search over it.
//
// A palette is built from source groups (each contributing one base color)
// crossed with the tone classes permitted by the active structure mode. Every
// entry's coordinates in every supported color space are computed exactly
// once at build time; per-pixel matching never converts colors.
//
// A built Palette is immutable. When the selection of groups or the structure
// mode changes, the caller rebuilds the palette wholesale; entry indices are
// stable only within one build.
//
// # Thread Safety
//
// Palette values are read-only after Build and safe to share across
// concurrent conversions. Matcher carries a mutable lookup cache and must not
// be shared between goroutines; create one Matcher per invocation.
package palette
