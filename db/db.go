package db

import (
	"context"
	"database/sql"
	"sync"

	"log"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
	"time"

	"github.com/minglehq/mingle/util"
)

// DB is the database struct. It backs the persistence adapter: named JSON
// blobs, one row per collection, overwritten wholesale on every store
// mutation.
type DB struct {
	db *sql.DB
}

var (
	dbInstance *DB
	dbOnce     sync.Once
)

// Blob keys. A missing or unknown key reads as an empty collection.
const (
	BlobUsers          = "users"
	BlobFriendRequests = "friendRequests"
	BlobConversations  = "conversations"
	BlobCredentials    = "credentials"
)

const (
	sqlCreateBlobsTable = `CREATE TABLE IF NOT EXISTS blobs(
                        key varchar(100) NOT NULL PRIMARY KEY,
                        value text NOT NULL,
                        updated_at timestamp default current_timestamp
                        )`
	sqlUpsertBlob = `INSERT INTO blobs(key, value, updated_at) VALUES (?, ?, ?)
                        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	sqlSelectBlob = `SELECT value FROM blobs WHERE key = ?`
	sqlDeleteBlob = `DELETE FROM blobs WHERE key = ?`
)

// ReadBlob returns the stored JSON for a key. A missing key is not an
// error; it returns nil so the caller starts from an empty collection.
func (db *DB) ReadBlob(key string) (error, []byte) {
	row := db.db.QueryRow(sqlSelectBlob, key)
	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return err, nil
	}
	return nil, []byte(value)
}

// WriteBlob overwrites the collection for a key in one transaction.
func (db *DB) WriteBlob(key string, value []byte) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlUpsertBlob, key, string(value), time.Now())
		return err
	})
}

func (db *DB) DeleteBlob(key string) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlDeleteBlob, key)
		return err
	})
}

// Open opens a database at the given path and sets up the schema. Tests
// pass ":memory:".
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Configure connection pool for concurrent access
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Try to enable WAL mode
	var journalMode string
	err = sqlDB.QueryRow("PRAGMA journal_mode=WAL").Scan(&journalMode)
	if err != nil {
		log.Printf("Warning: Failed to enable WAL mode: %v", err)
	} else {
		log.Printf("Database journal mode: %s", journalMode)
	}

	sqlDB.Exec("PRAGMA synchronous = NORMAL") // Reduces fsync calls
	sqlDB.Exec("PRAGMA temp_store = MEMORY")  // Store temp tables in RAM
	sqlDB.Exec("PRAGMA busy_timeout = 5000")  // Wait up to 5s for locks

	database := &DB{db: sqlDB}

	// Run initial schema setup
	if err := database.CreateDB(); err != nil {
		return nil, err
	}
	return database, nil
}

// Close closes the underlying database handle.
func (db *DB) Close() error {
	return db.db.Close()
}

func GetDB() *DB {
	dbOnce.Do(func() {
		database, err := Open(util.ResolveFilePath("mingle.db"))
		if err != nil {
			panic(err)
		}
		dbInstance = database
	})

	return dbInstance
}

// CreateDB creates the database schema.
func (db *DB) CreateDB() error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlCreateBlobsTable)
		return err
	})
}

// wrapTransaction runs the given function within a transaction.
func (db *DB) wrapTransaction(f func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("error starting transaction: %s", err)
		return err
	}
	for {
		err = f(tx)
		if err != nil {
			serr, ok := err.(*sqlite.Error)
			if ok && serr.Code() == sqlitelib.SQLITE_BUSY {
				continue
			}
			log.Printf("error in transaction: %s", err)
			return err
		}
		err = tx.Commit()
		if err != nil {
			log.Printf("error committing transaction: %s", err)
			return err
		}
		break
	}
	return nil
}
