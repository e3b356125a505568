// Package services holds the application use cases of the dashboard
// backend. Each service validates its input, enforces the domain rules the
// repositories cannot (lifecycle state, editability) and shapes results for
// the HTTP layer. Services never talk to AWS directly.
package services
