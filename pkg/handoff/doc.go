// Package handoff provides the bounded channel used to move records out of
// restricted contexts into a consumer task.
package handoff

// A restricted context is a goroutine servicing a hardware edge or a timer
// tick. It may call TryPush at any time: the call never blocks, never
// allocates and reports a full buffer through PushResult and the drop
// counter instead of waiting.
//
// Producer: edge handlers, timer ticks (any number)
// Consumer: exactly one task calling Pop
