// Package wire implements Portal's length-prefixed record codec.
//
// Every record on the wire is:
//
//	len  uint64 little-endian
//	body len bytes
//
// body decodes to one of the tagged variants in this package (Init,
// InitAck, Confirm, Metadata, MetadataAck, FileHeader, Chunk, EndOfFile,
// Error). Strings and byte blobs inside a body are themselves
// uint64-length-prefixed. Decoding fails closed: any structural error
// (short read, trailing bytes, oversized length) is reported rather than
// guessed at.
package wire
