package storage

import (
	"database/sql"
	"errors"
	"time"

	"zenchat/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps threads and messages in an in-memory SQLite database.
// Nothing is written to disk; the data is gone once the store is closed.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens a private in-memory database and initializes tables
func NewSQLiteStore() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) createTables() error {
	threadsTable := `
	CREATE TABLE IF NOT EXISTS threads (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		date_label TEXT NOT NULL,
		position INTEGER NOT NULL
	);`

	messagesTable := `
	CREATE TABLE IF NOT EXISTS messages (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		thread_id INTEGER NOT NULL,
		id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (thread_id) REFERENCES threads (id) ON DELETE CASCADE
	);`

	indexTable := `
	CREATE INDEX IF NOT EXISTS idx_messages_thread_id ON messages(thread_id);
	CREATE INDEX IF NOT EXISTS idx_threads_position ON threads(position);`

	for _, query := range []string{threadsTable, messagesTable, indexTable} {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// List loads all threads ordered newest first
func (s *SQLiteStore) List() ([]models.Thread, error) {
	rows, err := s.db.Query(`
		SELECT id, title, date_label
		FROM threads
		ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}

	threads := []models.Thread{}
	for rows.Next() {
		var t models.Thread
		if err := rows.Scan(&t.ID, &t.Title, &t.DateLabel); err != nil {
			rows.Close()
			return nil, err
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// single connection: finish the cursor before issuing the next query
	rows.Close()

	for i := range threads {
		messages, err := s.loadMessages(threads[i].ID)
		if err != nil {
			return nil, err
		}
		threads[i].Messages = messages
	}

	return threads, nil
}

// Get loads a single thread with its messages
func (s *SQLiteStore) Get(id int) (models.Thread, error) {
	var t models.Thread
	err := s.db.QueryRow(`
		SELECT id, title, date_label
		FROM threads
		WHERE id = ?`, id).Scan(&t.ID, &t.Title, &t.DateLabel)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Thread{}, ErrNotFound
	}
	if err != nil {
		return models.Thread{}, err
	}

	t.Messages, err = s.loadMessages(id)
	if err != nil {
		return models.Thread{}, err
	}
	return t, nil
}

// Prepend inserts a thread ahead of every existing one
func (s *SQLiteStore) Prepend(thread models.Thread) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO threads (id, title, date_label, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MIN(position), 0) - 1 FROM threads))`,
		thread.ID, thread.Title, thread.DateLabel)
	if err != nil {
		return err
	}

	if err := insertMessages(tx, thread.ID, thread.Messages); err != nil {
		return err
	}

	return tx.Commit()
}

// SaveMessages replaces all messages of a thread
func (s *SQLiteStore) SaveMessages(id int, messages []models.Message) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM threads WHERE id = ?", id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	// Delete existing messages for this thread
	if _, err := tx.Exec("DELETE FROM messages WHERE thread_id = ?", id); err != nil {
		return err
	}

	if err := insertMessages(tx, id, messages); err != nil {
		return err
	}

	return tx.Commit()
}

func insertMessages(tx *sql.Tx, threadID int, messages []models.Message) error {
	for _, msg := range messages {
		_, err := tx.Exec(`
			INSERT INTO messages (thread_id, id, role, content, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			threadID, msg.ID, string(msg.Role), msg.Content, msg.Time.UnixNano())
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) loadMessages(threadID int) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, role, content, created_at
		FROM messages
		WHERE thread_id = ?
		ORDER BY seq ASC`,
		threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var (
			msg     models.Message
			role    string
			created int64
		)
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &created); err != nil {
			return nil, err
		}
		msg.Role = models.Role(role)
		msg.Time = time.Unix(0, created)
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// Close closes the database connection, discarding its contents
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
