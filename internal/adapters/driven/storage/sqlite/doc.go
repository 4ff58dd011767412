// Package sqlite implements the TokenStore port on a local SQLite
// database in the paymate data directory. The database holds a single
// token slot; saving a new token replaces the previous connection.
package sqlite
