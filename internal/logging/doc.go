// Package logging provides structured logging for wizlocal.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used by the transport, listener and registration packages. Logging
// is silent by default so that library consumers and CLI commands produce no
// unexpected output.
//
// # Log Levels
//
//   - Debug: Datagram hex dumps, acknowledgements, registration ticks
//   - Info: Listener lifecycle, device boot beacons, command results
//   - Warn: Malformed datagrams, failed acknowledgements, timeouts
//   - Error: Socket failures that stop a component
//
// # Structured Logging
//
//	logging.Info("Registration sent",
//	    zap.String("target", "192.168.1.255"),
//	    zap.Bool("broadcast", true),
//	)
//
// # Datagram Logging
//
//	logging.LogDatagram("received", "192.168.1.40:38899", payload)
//	logging.LogExchange("setPilot", "192.168.1.40", elapsed, err)
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is given, the WIZLOCAL_LOG_LEVEL environment variable is
// consulted. An empty value keeps the no-op logger.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
