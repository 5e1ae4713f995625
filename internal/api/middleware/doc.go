// Package middleware provides the Gin middleware in front of the desktop
// API: CORS for the browser client, per-IP and global rate limits, and
// bearer-token session authentication.
package middleware
