package game

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalogLoads(t *testing.T) {
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	if cat.Len() < 40 {
		t.Errorf("expected a full card set, got %d cards", cat.Len())
	}

	charizard := cat.MustLookup("charizard_ex")
	if !charizard.IsEx || charizard.Stage != Stage2 || charizard.EvolvesFrom != "Charmeleon" {
		t.Errorf("unexpected Charizard ex: %+v", charizard)
	}
	if got := charizard.Attacks[1].Cost; len(got) != 4 || got[0] != EnergyFire || got[3] != EnergyColorless {
		t.Errorf("unexpected Crimson Storm cost %v", got)
	}

	cards := cat.Cards()
	for i := 1; i < len(cards); i++ {
		if cards[i-1].ID >= cards[i].ID {
			t.Fatalf("Cards not sorted by id: %s before %s", cards[i-1].ID, cards[i].ID)
		}
	}
	for _, c := range cards {
		for _, atk := range c.Attacks {
			targeted := 0
			for _, e := range atk.Effects {
				if e.Kind.targeting() != targetNone {
					targeted++
				}
			}
			if targeted > 1 {
				t.Errorf("%s/%s has %d targeted effects", c.ID, atk.Name, targeted)
			}
		}
	}
}

func TestLookupUnknownCard(t *testing.T) {
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	_, err = cat.Lookup("missingno")
	var ce *CatalogError
	if !errors.As(err, &ce) || ce.Card != "missingno" {
		t.Errorf("expected CatalogError for missingno, got %v", err)
	}
}

func TestLoadCatalogRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		ref  string
	}{
		{
			name: "unknown effect",
			ref:  "teleport",
			yaml: `
cards:
  - id: abra
    name: Abra
    category: pokemon
    hp: 50
    type: psychic
    attacks:
      - name: Teleport
        cost: [colorless]
        effects:
          - {id: teleport}
`,
		},
		{
			name: "tool effect on an attack",
			ref:  "hp_bonus",
			yaml: `
cards:
  - id: abra
    name: Abra
    category: pokemon
    hp: 50
    type: psychic
    attacks:
      - name: Grow
        cost: [colorless]
        effects:
          - {id: hp_bonus, amount: 20}
`,
		},
		{
			name: "unknown evolution",
			ref:  "Abra",
			yaml: `
cards:
  - id: kadabra
    name: Kadabra
    category: pokemon
    hp: 80
    type: psychic
    stage: 1
    evolves_from: Abra
`,
		},
		{
			name: "duplicate id",
			yaml: `
cards:
  - {id: abra, name: Abra, category: pokemon, hp: 50, type: psychic}
  - {id: abra, name: Abra, category: pokemon, hp: 50, type: psychic}
`,
		},
		{
			name: "unknown energy",
			yaml: `
cards:
  - {id: abra, name: Abra, category: pokemon, hp: 50, type: cosmic}
`,
		},
		{
			name: "empty",
			yaml: `cards: []`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !IsCatalogError(err) {
				t.Fatalf("expected a CatalogError, got %T: %v", err, err)
			}
			var ce *CatalogError
			errors.As(err, &ce)
			if tt.ref != "" && ce.Ref != tt.ref {
				t.Errorf("expected ref %q, got %q (%v)", tt.ref, ce.Ref, err)
			}
		})
	}
}

func TestLoadCatalogCustomCard(t *testing.T) {
	cat, err := LoadCatalog([]byte(`
cards:
  - id: abra
    name: Abra
    category: pokemon
    hp: 50
    type: psychic
    weakness: darkness
    retreat: 1
    attacks:
      - name: Psy Poke
        cost: [Psychic]
        damage: 10
        effects:
          - {id: coin_bonus, amount: 20}
  - id: lure
    name: Lure
    category: trainer
    trainer: item
    effects:
      - {id: switch_opponent}
`))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	abra := cat.MustLookup("abra")
	if abra.Weakness != EnergyDarkness || abra.Attacks[0].Cost[0] != EnergyPsychic {
		t.Errorf("energy names must parse case-insensitively: %+v", abra)
	}
	if e := abra.Attacks[0].Effects[0]; e.Kind != EffectCoinBonus || e.Amount != 20 {
		t.Errorf("unexpected effect %v", e)
	}
	if lure := cat.MustLookup("lure"); lure.TrainerKind != TrainerItem || !lure.IsTrainer() {
		t.Errorf("unexpected trainer %+v", lure)
	}
	if !strings.Contains(abra.String(), "Abra") {
		t.Errorf("String() = %q", abra.String())
	}
}
