// Package redis connects the application to the Redis instance that backs
// server-side sessions.
//
// Connect parses a redis:// URL, pings the server and retries a configurable
// number of times before giving up. A Redis that cannot be reached at start-up
// is a fatal configuration error for the caller. Healthcheck returns a closure
// suitable for readiness probes.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
package redis
