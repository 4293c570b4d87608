package test

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"todolist/internal/adapter/database/sqlite"
)

// InitTestDB opens a private in-memory sqlite database with migrations applied.
func InitTestDB() *sqlite.DB {
	dsn := fmt.Sprintf("file:test_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := sqlite.NewDB(sqlite.Options{Path: dsn})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// CleanDB deletes every row, keeping the schema.
func CleanDB(db *sqlite.DB) error {
	_, err := db.Exec("DELETE FROM todos")
	return err
}
