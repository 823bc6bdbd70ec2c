package store

import "fmt"

// OpenStore picks a checkpoint backend by kind. The filesystem store is the
// default; the sqlite backend keeps checkpoints in <baseDir>/checkpoints.db
// and is only available in builds with the sqlite tag. Traces always live
// on the filesystem under <baseDir>/runs/.
func OpenStore(kind, baseDir string) (Store, error) {
	switch kind {
	case "", "fs":
		return NewFSStore(baseDir)
	case "sqlite":
		return newSQLiteStore(baseDir)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes stores that hold open resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
