package entity

import "time"

// Vendor dueño de un catálogo. El login del kiosco usa un código de acceso
// cuyo hash bcrypt se guarda en AccessCodeHash.
type Vendor struct {
	ID             string
	Name           string
	AccessCodeHash string
	Active         bool
	CreatedAt      time.Time
}
