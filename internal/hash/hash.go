// Package hash computes content digests for reference files and
// abbreviation tables.
//
// Digests identify the exact bytes a run read and wrote, so a report can show
// whether processing changed anything and which table revision was used.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Hasher computes digests of files and in-memory buffers.
type Hasher interface {
	// HashFile computes the digest of the file at the given path.
	HashFile(path string) (string, error)

	// HashBytes computes the digest of data.
	HashBytes(data []byte) string
}

// Bytes returns the hex-encoded SHA-256 of data.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashFile streams the file at path through SHA-256.
func (h *SHA256Hasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashBytes returns the SHA-256 of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	return Bytes(data)
}

// FakeHasher returns fixed digests, keyed by path or by content.
type FakeHasher struct {
	files  map[string]string
	values map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		files:  make(map[string]string),
		values: make(map[string]string),
	}
}

// SetFileHash fixes the digest returned for path.
func (h *FakeHasher) SetFileHash(path, digest string) {
	h.files[path] = digest
}

// SetBytesHash fixes the digest returned for data.
func (h *FakeHasher) SetBytesHash(data []byte, digest string) {
	h.values[string(data)] = digest
}

// HashFile returns the digest set for path, or "fakehash".
func (h *FakeHasher) HashFile(path string) (string, error) {
	if d, ok := h.files[path]; ok {
		return d, nil
	}
	return "fakehash", nil
}

// HashBytes returns the digest set for data, or "fakehash".
func (h *FakeHasher) HashBytes(data []byte) string {
	if d, ok := h.values[string(data)]; ok {
		return d
	}
	return "fakehash"
}
