// Package schedule persists the refresh schedule state and cycle history.
//
// The gate that decides whether a refresh cycle is due reads the last
// successful completion timestamp; an empty or unparseable value fails open
// so a corrupted state file can never wedge the refresher. Completed cycles
// are recorded with their outcome tallies for the status and history
// commands.
package schedule
