package library

import (
	"sync"

	"github.com/google/uuid"
)

const blobScheme = "blob:easel/"

// BlobStore holds locally-allocated transient content. Allocated URIs stay
// dereferenceable until revoked; revocation frees the backing bytes.
type BlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewBlobStore creates an empty blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

// Allocate stores data and returns the transient URI that addresses it.
func (b *BlobStore) Allocate(data []byte) string {
	uri := blobScheme + uuid.NewString()
	b.mu.Lock()
	b.blobs[uri] = data
	b.mu.Unlock()
	return uri
}

// Resolve returns the content behind a transient URI.
func (b *BlobStore) Resolve(uri string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[uri]
	return data, ok
}

// Revoke frees a transient URI. Revoked URIs no longer resolve.
func (b *BlobStore) Revoke(uri string) {
	b.mu.Lock()
	delete(b.blobs, uri)
	b.mu.Unlock()
}

// Len reports the number of live blobs.
func (b *BlobStore) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.blobs)
}
