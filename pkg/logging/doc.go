// Package logging wraps zap's sugared logger with key/value helpers and
// redaction of credential-like fields (pinning JWTs, operator keys).
package logging
