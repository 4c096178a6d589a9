package entity

import "time"

// Category representa una categoría de ítems. Ciclo de vida independiente:
// borrarla no toca los ítems que la referencian.
type Category struct {
	ID          string
	Name        string // único
	Description string
	CreatedBy   string
	DateCreated time.Time
}
