package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de commande (le paiement est simulé : une commande passe
// directement en "confirmed").
const (
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID          gocql.UUID  `json:"id" db:"order_id"`
	UserID      string      `json:"user_id" db:"user_id"`
	Reference   string      `json:"reference" db:"reference"`
	Items       []OrderItem `json:"items"`
	AmountTotal float64     `json:"amount_total" db:"amount_total"`
	Status      string      `json:"status" db:"status"`
	Shipping    Address     `json:"shipping"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem fige la ligne au moment de l'achat. ProductID est bien
// l'identifiant catalogue (pas un identifiant interne de commande) : le
// re-achat depuis l'historique reconstruit des lignes de panier qui
// fusionnent avec celles ajoutées depuis le catalogue.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"productName"`
	ImageURL  string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
}

// CartItem reconstruit une ligne de panier depuis une ligne de commande
// (flux "commander à nouveau").
func (i OrderItem) CartItem() CartItem {
	return CartItem{
		ProductID: i.ProductID,
		Name:      i.Name,
		ImageURL:  i.ImageURL,
		Price:     i.Price,
		Quantity:  i.Quantity,
		Size:      i.Size,
		Color:     i.Color,
	}
}
