package pets

import "time"

// Species define las especies que atiende la clínica.
// @Enum dog, cat, bird, rodent, reptile, other
type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesBird    Species = "bird"
	SpeciesRodent  Species = "rodent"
	SpeciesReptile Species = "reptile"
	SpeciesOther   Species = "other"
)

func ValidSpecies(s Species) bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRodent, SpeciesReptile, SpeciesOther:
		return true
	}
	return false
}

// Pet es una mascota registrada. Referencia a su cliente por id; las
// citas referencian a la mascota de la misma forma.
type Pet struct {
	ID       string
	ClientID string

	Name    string
	Species Species

	Breed    string
	AgeYears *int
	WeightKg *float64
	Notes    string

	RegisteredAt time.Time
}
