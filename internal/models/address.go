package models

import "github.com/gocql/gocql"

type Address struct {
	ID         gocql.UUID `json:"id"`
	UserID     string     `json:"userId"`
	Street     string     `json:"street"`
	City       string     `json:"city"`
	PostalCode string     `json:"postalCode"`
	Country    string     `json:"country"`
	IsDefault  bool       `json:"isDefault"`
}
