package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestLoadDefaults(t *testing.T) {
	d, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Games != 1000 || d.Seed != 42 || d.Port != 8080 || d.Timeout != 0 {
		t.Errorf("unexpected defaults %+v", d)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TCGSIM_GAMES", "250")
	t.Setenv("TCGSIM_TIMEOUT", "90s")
	t.Setenv("TCGSIM_DECKS", "/tmp/decks.yaml")

	d, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Games != 250 || d.Timeout != 90*time.Second || d.Decks != "/tmp/decks.yaml" {
		t.Errorf("env not applied: %+v", d)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("TCGSIM_SEED", "not-a-number")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLanguage(t *testing.T) {
	if Language("de") != language.German {
		t.Errorf("de parsed as %v", Language("de"))
	}
	if Language("!!") != language.English {
		t.Errorf("bad tags should fall back to English")
	}
}

func TestLoadDataBuiltin(t *testing.T) {
	data, err := LoadData("", "")
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	if len(data.Decks) == 0 || data.Catalog.Len() == 0 {
		t.Fatal("built-in data is empty")
	}
	first := data.Decks[0]
	if d, err := data.Deck("1"); err != nil || d != first {
		t.Errorf("Deck(\"1\") = %v, %v", d, err)
	}
	if d, err := data.Deck(first.Name); err != nil || d != first {
		t.Errorf("Deck(%q) = %v, %v", first.Name, d, err)
	}
	if _, err := data.Deck("Nope"); err == nil {
		t.Error("unknown deck accepted")
	}
}

func TestLoadDataFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decks.yaml")
	deck := `
decks:
  - name: Sparks
    energy: [lightning]
    cards:
      - {id: pikachu, count: 2}
      - {id: raichu, count: 2}
      - {id: tauros, count: 2}
      - {id: meowth, count: 2}
      - {id: persian, count: 2}
      - {id: potion, count: 2}
      - {id: poke_ball, count: 2}
      - {id: x_speed, count: 2}
      - {id: switch, count: 2}
      - {id: giovanni, count: 2}
`
	if err := os.WriteFile(path, []byte(deck), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := LoadData("", path)
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	if len(data.Decks) != 1 || data.Decks[0].Name != "Sparks" {
		t.Errorf("unexpected decks %v", data.Decks)
	}

	if _, err := LoadData("", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing deck file accepted")
	}
}
