package clients

import "time"

// Client es el dueño de una o más mascotas. Email y dirección son
// opcionales; string vacío significa "no informado".
type Client struct {
	ID      string
	Name    string
	Phone   string
	Email   string
	Address string

	RegisteredAt time.Time
}
