// Package logger provides structured logging for the camera scraper,
// built on top of zerolog.
//
// The package exposes a Logger interface so that components can be tested
// with the in-memory TestLogger, while production code uses the zerolog
// implementation with colored console output and optional file output.
//
// Typical usage:
//
//	logger.Initialize(&cfg.Logging)
//	log := logger.GetLogger()
//	log.InfoWithFields("fetched page", map[string]interface{}{
//		"url":  url,
//		"size": len(body),
//	})
package logger
