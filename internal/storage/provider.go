package storage

// Provider is the behavior any asset backend must offer: host a blob
// under a name and hand back a stable public URL for it.
type Provider interface {
	// Ensure verifies (or creates) whatever container the backend
	// needs: a release tag, a bucket, a directory.
	Ensure() error
	Upload(name string, data []byte, contentType string) (string, error)
}
