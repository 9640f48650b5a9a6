package domain

// DeviceStore is durable key-value storage scoped to one device. Values are
// whole JSON blobs: callers read-modify-write full collections and the store
// is last-write-wins on the blob. Missing or corrupt JSON is reported as
// absent, never as an error surfaced to callers.
//
// Managers own disjoint key namespaces (progress, bookmarks, highlights,
// notes, reading lists) so no read-modify-write races occur within the
// process. Cross-device races on synced data are accepted last-write-wins.
type DeviceStore interface {
	// Get unmarshals the value at key into out and reports whether a
	// usable value was present. Corrupt JSON is logged and treated as
	// absent.
	Get(key string, out any) (bool, error)
	Set(key string, value any) error
	Delete(key string) error
	// Keys lists stored keys with the given prefix.
	Keys(prefix string) ([]string, error)
	// DeviceID returns the durable random device identifier, generating
	// and persisting it on first access.
	DeviceID() (string, error)
	Close() error
}
