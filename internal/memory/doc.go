// Package memory configures the Go soft memory limit for containers and
// provides a Guard that holds back thumbnail work under memory pressure.
//
// # Environment Variables
//
//	GOMEMLIMIT     standard Go limit, takes precedence when set
//	MEMORY_LIMIT   container limit in bytes, for example from the Kubernetes Downward API
//	MEMORY_RATIO   share of MEMORY_LIMIT given to the Go heap (default 0.85)
//
// A Guard samples heap usage against the limit. Above the pause ratio
// Wait blocks new work until usage falls below the resume ratio.
package memory
