package httpserver

import "time"

// ShutdownTimeout bounds graceful shutdown. Long enough to drain an
// in-flight watchable computation, short enough that restarts stay snappy.
var ShutdownTimeout = 10 * time.Second
