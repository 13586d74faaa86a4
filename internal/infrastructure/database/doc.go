// Package database provides the SQLite connection used by the node's
// persistence backend.
//
// The node stores its setup, schema, values and log documents as blobs
// and keeps a history of lifecycle commands. SQLite is opened in WAL
// mode with a single writer connection; schema changes ship as embedded
// migration files named YYYYMMDD_HHMMSS_description.{up,down}.sql.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: "./data/node.db", WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
package database
