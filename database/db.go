package database

import (
	"database/sql"
	"log"
	"sync"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/openspar/mapper/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, errors.Wrap(err, "error opening database connection")
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, errors.Wrap(err, "error pinging database")
	}
	err = createMappingTable(db)
	if err != nil {
		return nil, errors.Wrap(err, "error creating mapping table")
	}
	return db, nil
}

// createMappingTable creates the PostgreSQL table for MappingRecord. The
// unique constraint on (id_value, fa_value) is the authoritative defense
// against two concurrent link requests racing the existence check.
func createMappingTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS id_fa_mappings (
			id SERIAL PRIMARY KEY,
			mapping_id TEXT NOT NULL UNIQUE,
			id_value TEXT NOT NULL,
			fa_value TEXT NOT NULL,
			name TEXT,
			phone TEXT,
			additional_info JSONB,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (id_value, fa_value)
		)
	`)
	if err != nil {
		log.Printf("Error creating id_fa_mappings table: %v", err)
	}
	return err
}
