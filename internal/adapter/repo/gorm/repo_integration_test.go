package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"

	"agentbridge/internal/app/ports"
	"agentbridge/migrations"

	"github.com/google/uuid"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("AGENTBRIDGE_DB_DSN")
	if dsn == "" {
		t.Skip("AGENTBRIDGE_DB_DSN is required for integration test")
	}
	return dsn
}

func TestAccessRepos_RoundTrip(t *testing.T) {
	dsn := requireDSN(t)
	ctx := context.Background()
	db, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(ctx, db, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	username := "it-access-roundtrip"
	_ = db.Exec("DELETE FROM api_keys WHERE username = ?", username).Error
	_ = db.Exec("DELETE FROM lobby_players WHERE username = ?", username).Error

	keys := NewAPIKeyRepo(db)
	lobby := NewLobbyRepo(db)
	key := uuid.New()

	err = NewTxManager(db).RunInTx(ctx, func(ctx context.Context) error {
		if err := keys.PutKey(ctx, key, username); err != nil {
			return err
		}
		if err := lobby.Join(ctx, ports.LobbyBinding{Username: username, GameID: "g-old", APIAccess: false}); err != nil {
			return err
		}
		return lobby.Join(ctx, ports.LobbyBinding{Username: username, GameID: "g-1", APIAccess: true})
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := keys.UsernameForKey(ctx, key)
	if err != nil {
		t.Fatalf("lookup key: %v", err)
	}
	if got != username {
		t.Fatalf("username mismatch: got=%q want=%q", got, username)
	}
	if err := keys.PutKey(ctx, key, username); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate key, got %v", err)
	}

	b, err := lobby.ActiveGame(ctx, username)
	if err != nil {
		t.Fatalf("active game: %v", err)
	}
	if b.GameID != "g-1" || !b.APIAccess {
		t.Fatalf("binding mismatch: %+v", b)
	}

	if err := keys.Revoke(ctx, key); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := keys.UsernameForKey(ctx, key); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after revoke, got %v", err)
	}
	if err := keys.Revoke(ctx, key); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound revoking twice, got %v", err)
	}
	_ = db.Exec("DELETE FROM lobby_players WHERE username = ?", username).Error
	if _, err := lobby.ActiveGame(ctx, username); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound without binding, got %v", err)
	}
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	dsn := requireDSN(t)
	ctx := context.Background()
	db, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(ctx, db, migrations.FS); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	applied, err := ApplyMigrations(ctx, db, migrations.FS)
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("expected no pending migrations, got %v", applied)
	}
}
