package main

// A blank import of runtime/cgo previously lived here to force CGO-enabled
// builds; it was removed because this module is built with CGO_ENABLED=0 and
// the import made the link fail. The sqlite driver degrades to a runtime
// error without cgo; tests relying on it are expected to use build tags or
// skip accordingly.
