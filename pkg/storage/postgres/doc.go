// Package postgres implements the API store on PostgreSQL via
// database/sql. The queries stick to portable SQL (positional $N
// parameters, RETURNING, timestamps passed in from Go) so the test
// suite can run the same store against SQLite.
package postgres
