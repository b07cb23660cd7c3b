package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// sqlDialect отличает SQL, который расходится между SQLite и MySQL
type sqlDialect struct {
	driver      string
	createTable string
	upsert      string
}

var (
	sqliteDialect = sqlDialect{
		driver: "sqlite",
		createTable: `
	CREATE TABLE IF NOT EXISTS records (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`,
		upsert: `INSERT INTO records (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
	}

	mysqlDialect = sqlDialect{
		driver: "mysql",
		createTable: `
	CREATE TABLE IF NOT EXISTS records (
		` + "`key`" + ` VARCHAR(255) NOT NULL PRIMARY KEY,
		value LONGBLOB NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin;`,
		upsert: "INSERT INTO records (`key`, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
	}
)

// SQLStore хранит записи в таблице records(key, value)
type SQLStore struct {
	db      *sql.DB
	dialect sqlDialect
}

// NewSQLiteStore открывает файл базы SQLite.
// Путь ":memory:" даёт базу в памяти одного соединения.
func NewSQLiteStore(path string) (*SQLStore, error) {
	db, err := sql.Open(sqliteDialect.driver, path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть SQLite: %w", err)
	}
	// SQLite не любит конкурентных писателей
	db.SetMaxOpenConns(1)
	return newSQLStore(db, sqliteDialect)
}

// NewMySQLStore подключается к MySQL/MariaDB по DSN
// вида user:pass@tcp(localhost:3306)/voxel
func NewMySQLStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open(mysqlDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть подключение к MariaDB: %w", err)
	}
	return newSQLStore(db, mysqlDialect)
}

func newSQLStore(db *sql.DB, dialect sqlDialect) (*SQLStore, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось подключиться к %s: %w", dialect.driver, err)
	}

	if _, err := db.Exec(dialect.createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать таблицу records: %w", err)
	}

	return &SQLStore{db: db, dialect: dialect}, nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value)
	return s.wrap(err)
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.query("SELECT value FROM records WHERE key = ?"), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.wrap(err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.query("DELETE FROM records WHERE key = ?"), key)
	return s.wrap(err)
}

// Scan выбирает все подходящие строки до вызова fn,
// чтобы fn мог писать в ту же базу при единственном соединении
func (s *SQLStore) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	rows, err := s.db.QueryContext(ctx,
		s.query("SELECT key, value FROM records WHERE substr(key, 1, ?) = ? ORDER BY key"),
		len(prefix), prefix)
	if err != nil {
		return s.wrap(err)
	}

	type record struct {
		key   string
		value []byte
	}
	var records []record
	for rows.Next() {
		var r record
		if err := rows.Scan(&r.key, &r.value); err != nil {
			rows.Close()
			return s.wrap(err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return s.wrap(err)
	}
	rows.Close()

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(r.key, r.value); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// query экранирует имя колонки key для MySQL, где это зарезервированное слово
func (s *SQLStore) query(q string) string {
	if s.dialect.driver != "mysql" {
		return q
	}
	return strings.NewReplacer("SELECT key", "SELECT `key`", "WHERE key", "WHERE `key`",
		"substr(key", "substr(`key`", "ORDER BY key", "ORDER BY `key`").Replace(q)
}

func (s *SQLStore) wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return ErrClosed
	}
	return fmt.Errorf("%s: %w", s.dialect.driver, err)
}
