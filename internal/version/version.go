// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - HTTP API with Prometheus metrics, YAML and environment configuration
// 0.2.0 - Live view with sun elevation, Qiblah bearing and event log
// 0.1.0 - Initial release: schedule engine, summary table, JSON export
