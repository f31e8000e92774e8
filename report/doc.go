// Package report builds point-in-time health reports that combine system
// metrics, dependency probes, check results, open alerts, and derived
// recommendations into one document.
//
// Reports are advisory snapshots. The history timeline remains the source
// of truth for what happened when; a report is what an operator reads to
// decide what to do next.
package report
