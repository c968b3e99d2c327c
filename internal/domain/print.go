package domain

import "github.com/google/uuid"

// Print is one physical printing of a card: rarity, artists, scans and the
// optional flavor block. Set membership lives on SetPrint so a print can
// join a set without being re-created.
//
// Prints are updated by delete-and-recreate; exclusive children (scans,
// flavor, illustrator links, set membership) go with them.
type Print struct {
	ID           uuid.UUID
	Card         *Card
	Rarity       *Rarity
	Holographic  bool
	Illustrators []Illustrator
	Scans        []Scan
	Flavor       *PokemonFlavor
	SetPrint     *SetPrint
}

// Scan is a scanned image of a print.
type Scan struct {
	Filename string
	Order    int
}

// PokemonFlavor is the print-scoped dex block: species reference, measured
// stats and localized dex text. Height is stored in whole inches.
type PokemonFlavor struct {
	Species      *Species
	Genus        string
	Weight       *float64
	HeightInches *int
	DexEntry     string
}

// SetPrint places a print in a set under an in-set number. Order
// disambiguates several prints sharing one number.
type SetPrint struct {
	Set    Set
	Number string
	Order  int
}
