// Package safety implements the emergency-stop latch gating an actuator.
//
// The latch has two states, Running and EmergencyStopped. Transitions are
// made only by the consumer task in response to records it pops. A
// separate single-word Flag is tripped directly from restricted contexts
// so the actuator path sees an emergency before the record is processed.
package safety
