// Package updater drives one refresh cycle: select eligible items, fetch
// fresh ratings from the enabled providers, aggregate the samples, and push
// changed values back into the library.
//
// Every item is processed independently. A provider failure, a missing
// rating, or a failed write affects only that item's tally and never aborts
// the cycle.
package updater
