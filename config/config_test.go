package config

import "testing"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	t.Setenv(key, value)
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, "ANTHROPIC_API_KEY", "test-key")
	setEnv(t, "MNEMO_ADDR", "")
	setEnv(t, "MNEMO_STORE", "")
	setEnv(t, "MNEMO_HISTORY_DB", "")
	setEnv(t, "MNEMO_RETRIEVE_LIMIT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8000" {
		t.Errorf("unexpected addr: %q", cfg.Addr)
	}
	if cfg.StoreBackend != StoreChromem {
		t.Errorf("unexpected store backend: %q", cfg.StoreBackend)
	}
	if cfg.HistoryDB != "mnemo_history.db" {
		t.Errorf("unexpected history db: %q", cfg.HistoryDB)
	}
	if cfg.RetrieveLimit != 15 {
		t.Errorf("unexpected retrieve limit: %d", cfg.RetrieveLimit)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	setEnv(t, "ANTHROPIC_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	setEnv(t, "ANTHROPIC_API_KEY", "test-key")
	setEnv(t, "MNEMO_STORE", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store backend")
	}
}

func TestLoadCustomValues(t *testing.T) {
	setEnv(t, "ANTHROPIC_API_KEY", "test-key")
	setEnv(t, "MNEMO_ADDR", ":9000")
	setEnv(t, "MNEMO_STORE", "inmem")
	setEnv(t, "MNEMO_RETRIEVE_LIMIT", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.StoreBackend != StoreInmem || cfg.RetrieveLimit != 25 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsBadLimit(t *testing.T) {
	setEnv(t, "ANTHROPIC_API_KEY", "test-key")
	setEnv(t, "MNEMO_STORE", "")
	setEnv(t, "MNEMO_RETRIEVE_LIMIT", "zero")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric limit")
	}
}
