// Package notifications surfaces pipeline outcomes to the user.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. The channel is strictly one-way: send failures are returned for
// logging but nothing in the pipeline queries it.
package notifications
