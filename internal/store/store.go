package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/vcabel/safework/internal/dbx"
	"github.com/vcabel/safework/internal/model"
	"github.com/vcabel/safework/internal/store/migrations"
)

// Store persists the full dataset and a handful of local-only settings
// (endpoint URL, workspace id, session marker, language) in SQLite.
type Store struct {
	db *sql.DB
	kv Repository
}

// Open opens (or creates) the local database at dsn and applies migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}
	return &Store{db: db, kv: NewSQLiteRepository(db)}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadSnapshot reads the persisted dataset in a single listing. Absent keys
// produce empty collections; an unparseable value yields an error so the
// caller can fall back to the built-in default dataset.
func (s *Store) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	rows, err := s.kv.List(ctx)
	if err != nil {
		return nil, err
	}

	snap := &model.Snapshot{
		Users:         []model.User{},
		Assessments:   []model.Assessment{},
		Meetings:      []model.Meeting{},
		Notifications: []model.Notification{},
	}

	if err := decodeRow(rows, KeyUsers, &snap.Users); err != nil {
		return nil, err
	}
	if err := decodeRow(rows, KeyAssessments, &snap.Assessments); err != nil {
		return nil, err
	}
	if err := decodeRow(rows, KeyMeetings, &snap.Meetings); err != nil {
		return nil, err
	}
	if err := decodeRow(rows, KeyNotifications, &snap.Notifications); err != nil {
		return nil, err
	}

	if len(rows[KeyAppConfig]) > 0 {
		var cfg model.AppConfig
		if err := decodeRow(rows, KeyAppConfig, &cfg); err != nil {
			return nil, err
		}
		snap.Config = &cfg
	}

	if raw := rows[KeyLastUpdated]; len(raw) > 0 {
		stamp, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", KeyLastUpdated, err)
		}
		snap.LastUpdated = stamp
	}

	return snap, nil
}

func decodeRow(rows map[string][]byte, key string, dst any) error {
	raw := rows[key]
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return nil
}

// SaveSnapshot writes the whole dataset in a single transaction so a crash
// mid-write cannot leave the collections inconsistent with each other.
func (s *Store) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		kv := NewSQLiteRepository(tx)

		entries := []struct {
			key string
			val any
		}{
			{KeyUsers, snap.Users},
			{KeyAssessments, snap.Assessments},
			{KeyMeetings, snap.Meetings},
			{KeyNotifications, snap.Notifications},
		}
		for _, e := range entries {
			data, err := json.Marshal(e.val)
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", e.key, err)
			}
			if err := kv.Set(ctx, e.key, data); err != nil {
				return err
			}
		}

		if snap.Config != nil {
			data, err := json.Marshal(snap.Config)
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", KeyAppConfig, err)
			}
			if err := kv.Set(ctx, KeyAppConfig, data); err != nil {
				return err
			}
		}

		return kv.Set(ctx, KeyLastUpdated, []byte(strconv.FormatInt(snap.LastUpdated, 10)))
	})
}

// Reset removes every persisted key, dataset and local settings alike.
// The caller is expected to reseed the dataset afterwards.
func (s *Store) Reset(ctx context.Context) error {
	return s.kv.Clear(ctx)
}

// Setting returns a local-only setting value, empty when unset.
func (s *Store) Setting(ctx context.Context, key string) (string, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetSetting stores a local-only setting value. An empty value removes the key.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if value == "" {
		return s.kv.Delete(ctx, key)
	}
	return s.kv.Set(ctx, key, []byte(value))
}
