// Package config loads application configuration from environment variables
// with the MILLII_ prefix.
//
// # Overview
//
// LoadConfig reads every setting, applies defaults, and validates the
// result:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Settings cover the HTTP and health servers, the SQL store (postgres or
// sqlite3), the optional Redis cache layer, effective-permission cache
// sizing, the client-side permission store (service URL, fetch timeout,
// session file), guard redirect targets, and observability.
//
// An empty MILLII_REDIS_URL disables the Redis layer; the service then runs
// on the in-process LRU alone.
package config
