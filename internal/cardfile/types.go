package cardfile

// CardRecord is the serialized shape of one card printing. Field order is
// the canonical output order; empty fields are omitted except legal,
// holographic and order, which are always written so re-imports never have
// to guess a default.
type CardRecord struct {
	Set         string   `yaml:"set,omitempty"`
	Number      string   `yaml:"number,omitempty"`
	Order       *int     `yaml:"order,omitempty"`
	Name        string   `yaml:"name"`
	Class       string   `yaml:"class,omitempty"`
	Types       []string `yaml:"types,omitempty"`
	HP          *int     `yaml:"hp,omitempty"`
	Stage       string   `yaml:"stage,omitempty"`
	Subclasses  []string `yaml:"subclasses,omitempty"`
	EvolvesFrom string   `yaml:"evolves from,omitempty"`
	EvolvesInto []string `yaml:"evolves into,omitempty"`
	Legal       *bool    `yaml:"legal,omitempty"`

	Mechanics []MechanicRecord `yaml:"mechanics,omitempty"`
	Modifiers []ModifierRecord `yaml:"damage modifiers,omitempty"`

	Retreat     *int     `yaml:"retreat,omitempty"`
	Rarity      string   `yaml:"rarity,omitempty"`
	Holographic *bool    `yaml:"holographic,omitempty"`
	Illustrator string   `yaml:"illustrator,omitempty"`
	Filename    []string `yaml:"filename,omitempty"`

	DexNumber *int     `yaml:"dex number,omitempty"`
	Pokemon   string   `yaml:"pokemon,omitempty"`
	Species   string   `yaml:"species,omitempty"`
	Weight    *float64 `yaml:"weight,omitempty"`
	Height    string   `yaml:"height,omitempty"`
	DexEntry  Text     `yaml:"dex entry,omitempty"`
}

// MechanicRecord is one serialized mechanic. The "type" key carries the
// mechanic class (attack, ability, ...).
type MechanicRecord struct {
	Name   string `yaml:"name,omitempty"`
	Class  string `yaml:"type"`
	Cost   string `yaml:"cost,omitempty"`
	Damage string `yaml:"damage,omitempty"`
	Text   Text   `yaml:"text,omitempty"`
}

// ModifierRecord is one serialized weakness or resistance entry. Type is
// the energy-type initial; Operation uses the ASCII spelling on the wire.
type ModifierRecord struct {
	Type      string `yaml:"type"`
	Operation string `yaml:"operation"`
	Amount    int    `yaml:"amount"`
}

// SetRecord is the serialized shape of a whole set file.
type SetRecord struct {
	Name        string       `yaml:"name"`
	Total       *int         `yaml:"total,omitempty"`
	ReleaseDate string       `yaml:"release date,omitempty"`
	BanDate     string       `yaml:"modified ban date,omitempty"`
	Cards       []CardRecord `yaml:"cards"`
}
