// Package manifest builds and validates Portal's transfer manifest: the
// TransferInfo the Sender advertises and the per-file FileMetadata that
// precedes each file's chunk stream.
//
// BuildManifest walks the Sender's input paths — files and directories,
// expanded breadth-first — relative to the common ancestor of the input
// set, following symlinks only when they resolve inside that ancestor.
// SafeRelativePath and ResolveUnderRoot apply the same rules on the
// Receiver side: no absolute roots, no ".." components, no empty
// components, and the resolved path must land strictly under the
// configured download root.
package manifest
