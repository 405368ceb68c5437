// Package pg connects to PostgreSQL through a pgx connection pool and applies
// goose migrations from an fs.FS.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, db.Migrations, log); err != nil {
//	    return err
//	}
package pg
