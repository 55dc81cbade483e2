// Package model defines the data shared between the login flow, the report
// writer and the history store.
//
//   - Outcome: the terminal result of a run and its process exit status
//   - Attempt: the record of one run, with an ordered step log
//
// Keeping these in their own package lets portal, report and database use
// them without importing each other.
package model
