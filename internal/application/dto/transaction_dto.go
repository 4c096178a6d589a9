package dto

import "time"

// RecordTransactionRequest body para POST /api/items/:id/transactions.
type RecordTransactionRequest struct {
	Type      string `json:"type" validate:"required,oneof=in out"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	Notes     string `json:"notes"`
	Reference string `json:"reference"`
}

// TransactionResponse salida de un asiento del libro.
type TransactionResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Date        time.Time `json:"date"`
	Notes       string    `json:"notes,omitempty"`
	Reference   string    `json:"reference,omitempty"`
	PerformedBy string    `json:"performed_by"`
}

// TransactionListResponse asientos de un ítem, más recientes primero.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}
