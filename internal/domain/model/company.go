package model

// Company is a row of the companies table. Jobs reference it by Handle.
type Company struct {
	Handle       string  `json:"handle"       db:"handle"`
	Name         string  `json:"name"         db:"name"`
	Description  string  `json:"description"  db:"description"`
	NumEmployees *int    `json:"numEmployees" db:"num_employees"`
	LogoURL      *string `json:"logoUrl"      db:"logo_url"`
}
