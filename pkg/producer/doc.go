// Package producer contains the handlers invoked from restricted contexts:
// hardware edges and timer ticks. Handlers do a bounded amount of work,
// push at most one record and return; they never block, log or allocate.
// Outcomes that need attention are counted for the consumer side to report.
package producer
