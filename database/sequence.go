package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	"github.com/sahilchouksey/qbank-api/config"
)

// SequenceStore hands out monotonically increasing sequence values from a
// dedicated counter table. It runs on a raw database/sql connection so the
// increment is a single UPDATE ... RETURNING statement: two concurrent
// callers can never observe the same value, which is what makes question
// human ids collision-free.
type SequenceStore struct {
	db *sql.DB
}

// StartSequenceStore opens the raw PostgreSQL connection and ensures the
// counter table exists.
func StartSequenceStore() (*SequenceStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	connectStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv.DB_HOST, getEnv.DB_PORT, getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD, getEnv.DB_NAME, getEnv.DB_SSL_MODE,
	)

	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		fmt.Println("Unable to start sequence store.")
		return nil, err
	}

	store := &SequenceStore{db: db}
	if err := store.ensureTable(); err != nil {
		return nil, err
	}

	log.Println("Sequence store ready.")
	return store, nil
}

func (s *SequenceStore) ensureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS question_sequences (
		name VARCHAR(50) PRIMARY KEY,
		value BIGINT NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Ensure creates the named counter row if it does not exist, seeding it with
// the given starting value. Idempotent.
func (s *SequenceStore) Ensure(name string, start int64) error {
	query := `
	INSERT INTO question_sequences (name, value)
	VALUES ($1, $2)
	ON CONFLICT (name) DO NOTHING;
	`
	_, err := s.db.Exec(query, name, start)
	return err
}

// Next atomically increments the named counter and returns the new value.
func (s *SequenceStore) Next(name string) (int64, error) {
	query := `
	UPDATE question_sequences
	SET value = value + 1
	WHERE name = $1
	RETURNING value;
	`
	var value int64
	err := s.db.QueryRow(query, name).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("sequence %q does not exist", name)
	}
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Close closes the raw connection.
func (s *SequenceStore) Close() error {
	log.Println("Closing sequence store.")
	return s.db.Close()
}
