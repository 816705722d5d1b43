// Package sqlite provides the persistent storage adapter backed by an
// embedded SQLite database. A single Store owns the connection and
// hands out wrapper types for the version, alert, anchor, history and
// dismissal store ports. Schema changes ship as embedded migrations.
package sqlite
