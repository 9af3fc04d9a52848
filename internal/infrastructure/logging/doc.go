// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// The viewer host logs every routing decision, activation arrival, and
// window lifecycle event through this package; nothing outside early
// bootstrap writes to the standard log package.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Routing deep link", zap.String("window", "main"))
//	logger.Warn("Failed to focus window", zap.Error(err))
package logging
