package entity

import "time"

// Tipos de transacción de stock. Enum cerrado de dos casos; el signo concentra
// la aritmética de cantidades para no comparar strings por todo el código.
const (
	TransactionTypeIn  = "in"  // entrada
	TransactionTypeOut = "out" // salida
)

// IsValidTransactionType verifica que el tipo pertenezca al enum.
func IsValidTransactionType(t string) bool {
	return t == TransactionTypeIn || t == TransactionTypeOut
}

// TransactionSign devuelve +1 para entradas y -1 para salidas.
func TransactionSign(t string) int64 {
	if t == TransactionTypeOut {
		return -1
	}
	return 1
}

// Transaction es un asiento inmutable del libro de movimientos de un ítem.
// El libro es append-only: no existe operación de actualización y los asientos
// solo desaparecen en cascada al borrar el ítem dueño.
type Transaction struct {
	ID          string
	ItemID      string
	Type        string // in, out
	Quantity    int64  // siempre positivo; el signo lo aporta Type
	Date        time.Time
	Notes       string
	Reference   string // documento externo (factura, orden, etc.)
	PerformedBy string // UserID
}

// SignedQuantity devuelve la cantidad con signo según el tipo.
func (t *Transaction) SignedQuantity() int64 {
	return TransactionSign(t.Type) * t.Quantity
}
