// Package log provides slog loggers that mask sensitive values.
//
// Both programs log through SecureHandler. The static page server logs
// request headers at debug level, and cookies or authorization headers
// sent by browsers must not end up in log files:
//
//	logger := log.NewLogger(os.Stderr, slog.LevelInfo, false)
//	logger.Debug("request", "cookie", r.Header.Get("Cookie")) // cookie=***REDACTED***
package log
