package llogs

// Driver is a log sink owned by the application lifecycle. Close flushes and
// releases the underlying resource.
type Driver interface {
	Close() bool
}
