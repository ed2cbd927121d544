package cachebox

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// Provider refused a write under pressure (provider.ErrSetRejected).
	ProviderSetRejected(namespace, storageKey string)

	// A stored value could not be decoded by the codec.
	DecodeError(namespace, storageKey string, err error)

	// Keys/Clear saw a key without this namespace's prefix.
	ForeignKey(namespace, storageKey string)

	// Clear finished with failed deletes.
	ClearFailed(namespace string, attempted, failed int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) ProviderSetRejected(string, string) {}
func (NopHooks) DecodeError(string, string, error)  {}
func (NopHooks) ForeignKey(string, string)          {}
func (NopHooks) ClearFailed(string, int, int)       {}
