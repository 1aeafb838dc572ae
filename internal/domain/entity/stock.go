package entity

import "time"

// StockSnapshot último stock autoritativo conocido de un producto.
// Version crece monotónicamente con cada evento aplicado; un evento con
// versión menor o igual a la conocida se descarta.
type StockSnapshot struct {
	ProductID string
	Units     int64
	Version   int64
	UpdatedAt time.Time
}

// StockEvent evento de cambio de stock empujado por el servidor para un
// producto del vendedor activo. Se entrega en orden de emisión.
type StockEvent struct {
	VendorID  string    `json:"vendor_id"`
	ProductID string    `json:"product_id"`
	Units     int64     `json:"stock_units"`
	Version   int64     `json:"version"`
	At        time.Time `json:"at"`
}
