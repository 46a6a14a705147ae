// Package timeouts centralizes shared timeout constants so services agree
// on how long cross-process operations may take.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// SQLiteBusy caps how long a SQLite statement waits on a locked database
// before failing, expressed in milliseconds in the DSN.
const SQLiteBusy = 5 * time.Second
