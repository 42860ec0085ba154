package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_MemoryWithJWT(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("expected default port 5000, got: %s", cfg.Port)
	}
	if cfg.DefaultTeamName != "Company Team" {
		t.Errorf("expected default team name 'Company Team', got: %s", cfg.DefaultTeamName)
	}
	if cfg.InvitationTTL != 7*24*time.Hour {
		t.Errorf("expected 7 day invitation ttl, got: %s", cfg.InvitationTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("expected CORS origins to default to the frontend url, got: %v", cfg.CORSOrigins)
	}
	if cfg.Auth.AllowRequestedRole {
		t.Error("expected requested roles to be ignored by default")
	}
}

func TestLoad_MySQLRequiresCredentials(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing database settings, got nil")
	}
	if !strings.Contains(err.Error(), "DB_USER") || !strings.Contains(err.Error(), "DB_NAME") {
		t.Errorf("error message should mention DB_USER and DB_NAME, got: %v", err)
	}
}

func TestLoad_FirebaseRequiresProject(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("AUTH_PROVIDER", "firebase")
	t.Setenv("FIREBASE_PROJECT_ID", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "FIREBASE_PROJECT_ID") {
		t.Fatalf("expected FIREBASE_PROJECT_ID error, got: %v", err)
	}
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "staging-ish")
	t.Setenv("STORE_DRIVER", "memory")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "APP_ENV") {
		t.Fatalf("expected APP_ENV error, got: %v", err)
	}
}

func TestLoad_CORSOriginsList(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_InvalidInvitationTTL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("INVITATION_TTL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid INVITATION_TTL")
	}
}
