// Package providers contains dependency injection providers for the BookBook server.
package providers

import "time"

// shutdownTimeout bounds graceful shutdown of long-lived components.
const shutdownTimeout = 10 * time.Second
