package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID          gocql.UUID `json:"id" db:"product_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	SKU         string     `json:"sku" db:"sku"`
	CategoryID  gocql.UUID `json:"category_id" db:"category_id"`
	ImageURLs   []string   `json:"image_urls" db:"image_urls"`
	Tags        []string   `json:"tags" db:"tags"`
	Sizes       []string   `json:"sizes" db:"sizes"`
	Colors      []string   `json:"colors" db:"colors"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ProductVariant : déclinaison taille/couleur d'un produit. C'est elle qui
// porte le stock — le plafonnement du panier se fait variante par variante.
type ProductVariant struct {
	ID        gocql.UUID `json:"id" db:"id"`
	ProductID gocql.UUID `json:"product_id" db:"product_id"`
	SKU       string     `json:"sku" db:"sku"`
	Size      string     `json:"size" db:"size"`
	Color     string     `json:"color" db:"color"`
	Price     float64    `json:"price" db:"price"`
	Stock     int        `json:"stock" db:"stock"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
