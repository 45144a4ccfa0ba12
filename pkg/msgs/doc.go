// Package msgs defines the messages exchanged with a safety device over
// the broker. Every payload is wrapped in a Typed envelope carrying the
// type ID and a per-publisher sequence number.
package msgs
