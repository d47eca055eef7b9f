package commands

// RequestFromOptions exports FetchOptions.request for testing.
var RequestFromOptions = FetchOptions.request //nolint:gochecknoglobals // test export
