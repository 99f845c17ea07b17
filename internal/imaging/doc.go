// Package imaging provides image file I/O for the conversion CLI.
//
// The conversion engine works exclusively on *image.NRGBA; this package owns
// the boundary between that representation and files on disk. Load decodes
// any supported format and normalizes it to NRGBA, Save encodes by file
// extension.
//
// # Thread Safety
//
// The Cache type is safe for concurrent use. Load and Save are stateless and
// can be called concurrently on different paths.
//
// # Error Handling
//
// Functions return errors for file I/O failures and undecodable image data;
// wrapped errors preserve the underlying cause.
package imaging
