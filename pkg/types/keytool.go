package types

import "context"

// KeyTool is the external key-management collaborator. Keys are addressed
// by the identifier declared in their section.
type KeyTool interface {
	// IsPresent reports whether the key is in the keyring
	IsPresent(ctx context.Context, key string) bool

	// Fingerprints returns the machine-readable fingerprint lines of key
	Fingerprints(ctx context.Context, key string) ([]string, error)

	// ImportFromServer fetches key from a keyserver
	ImportFromServer(ctx context.Context, key, server string) error

	// SetOwnerTrust assigns an owner-trust level to key
	SetOwnerTrust(ctx context.Context, key string, level int) error

	// ImportFile imports every key of a key bundle
	ImportFile(ctx context.Context, path string) error
}
