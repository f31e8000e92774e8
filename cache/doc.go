// Package cache provides the ephemeral key/value collaborator used by the
// health monitoring engine.
//
// The engine caches its latest health snapshot under a short TTL so
// concurrent status calls within the same window do not re-run every
// registered check. MemoryCache is the default in-process implementation;
// RedisCache backs the same interface with a shared Redis instance.
package cache
