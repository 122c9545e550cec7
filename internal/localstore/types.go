package localstore

const (
	// SessionsKey holds the JSON-serialized session list
	SessionsKey = "lenslink_sessions"

	// RemoteURLKey holds the user-entered remote store URL
	RemoteURLKey = "lenslink_remote_url"

	// RemoteKeyKey holds the user-entered remote store key
	RemoteKeyKey = "lenslink_remote_key"
)

// Credentials is a remote store URL and access key pair
type Credentials struct {
	URL string
	Key string
}

// Configured reports whether both halves of the pair are present
func (c *Credentials) Configured() bool {
	return c != nil && c.URL != "" && c.Key != ""
}
