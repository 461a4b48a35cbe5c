// Package logger wraps zap with a global sugared logger and context helpers.
//
// Services receive a context and log through it, so a component name or
// per-request fields attached with WithName/WithKV follow every message the
// component emits.
package logger
