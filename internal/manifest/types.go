package manifest

import (
	"encoding/json"

	"github.com/portalsys/portal/internal/aead"
	"github.com/portalsys/portal/internal/wire"
)

// FileMetadata is the per-file header the Sender seals into a
// wire.FileHeader record before streaming that file's chunks.
type FileMetadata struct {
	Path           string `json:"path"`
	PlaintextSize  int64  `json:"plaintext_size"`
	CiphertextSize int64  `json:"ciphertext_size"`
}

// TransferInfo is the manifest of every file in a send batch, sealed
// into a wire.Metadata record and sent before any FileHeader.
type TransferInfo struct {
	Files     []FileMetadata `json:"files"`
	TotalSize int64          `json:"total_size"`
}

// Marshal serialises t for sealing. JSON, matching the rest of the
// codebase's serialisation choice for structured payloads.
func (t TransferInfo) Marshal() ([]byte, error) { return json.Marshal(t) }

// UnmarshalTransferInfo decodes a sealed TransferInfo's opened plaintext.
func UnmarshalTransferInfo(b []byte) (TransferInfo, error) {
	var t TransferInfo
	if err := json.Unmarshal(b, &t); err != nil {
		return TransferInfo{}, err
	}
	return t, nil
}

// Marshal serialises m for sealing into a wire.FileHeader.
func (m FileMetadata) Marshal() ([]byte, error) { return json.Marshal(m) }

// UnmarshalFileMetadata decodes a sealed FileMetadata's opened plaintext.
func UnmarshalFileMetadata(b []byte) (FileMetadata, error) {
	var m FileMetadata
	if err := json.Unmarshal(b, &m); err != nil {
		return FileMetadata{}, err
	}
	return m, nil
}

// NumChunks returns how many chunks a file of plaintextSize bytes splits
// into: zero for an empty file, otherwise ceil(plaintextSize / ChunkSize).
func NumChunks(plaintextSize int64) int64 {
	if plaintextSize == 0 {
		return 0
	}
	return (plaintextSize + wire.ChunkSize - 1) / wire.ChunkSize
}

// CiphertextSize returns the on-wire size of a file's chunk stream: the
// plaintext size plus one Poly1305 tag per chunk.
func CiphertextSize(plaintextSize int64) int64 {
	return plaintextSize + NumChunks(plaintextSize)*aead.TagSize
}
