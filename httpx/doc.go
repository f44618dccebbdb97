// Package httpx is the HTTP layer shared by every selectpdf client:
//   - a reusable transport tuned for long-running conversions (headers may take minutes)
//   - request building against a base URL with default headers
//   - retry with exponential backoff + jitter (idempotent methods, or POSTs marked WithIdempotent)
//   - an error type carrying status, request id, retry-after and a truncated body
//   - hook points (rate limiter, before/after hooks, middleware) used for metrics and logging
package httpx
