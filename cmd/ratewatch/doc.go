// Command ratewatch is the CLI for the library rating refresher. It runs
// refresh cycles on demand and inspects schedule state and cycle history.
package main
