// Package ratelimit provides request throttling for the camera portal so
// repeated runs stay polite to the upstream server.
package ratelimit
