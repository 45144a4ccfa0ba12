// Package event defines the fixed-size records handed off from
// restricted contexts (edge handlers, timer ticks) to the consumer task.
package event

// Records are plain values: constructing, copying and queueing one never
// touches the heap, so they can be built inside an edge or tick handler.
