// Package registry assembles the enabled provider clients from
// configuration, sharing one rate limiter across them.
package registry
