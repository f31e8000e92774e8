// Package alert owns the durable alert records of the monitoring engine
// and their acknowledge/resolve lifecycle.
//
// An Alert is a durable record of a detected threshold breach, distinct
// from the transient check result that triggered it. The lifecycle is
// open -> acknowledged -> resolved, where acknowledgement is optional and
// resolution is terminal: re-raising the same condition creates a new
// alert rather than reopening the old one.
//
// The Manager's raising rule fires one alert per breached dimension per
// evaluation pass. There is deliberately no suppression window; a
// sustained outage raises an alert on every pass until resolved upstream.
package alert
