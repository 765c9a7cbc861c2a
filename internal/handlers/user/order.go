package user

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// scanOrder reconstruit une commande depuis une ligne Scylla. Les lignes et
// l'adresse de livraison sont stockées en JSON (colonnes items_json et
// shipping_json).
func scanOrder(orderID gocql.UUID, userID, reference, itemsJSON, shippingJSON string,
	amountTotal float64, status string, createdAt, updatedAt time.Time) models.Order {

	order := models.Order{
		ID:          orderID,
		UserID:      userID,
		Reference:   reference,
		AmountTotal: amountTotal,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	json.Unmarshal([]byte(itemsJSON), &order.Items)
	json.Unmarshal([]byte(shippingJSON), &order.Shipping)
	return order
}

// ✅ GET /api/orders : l'historique du user connecté, du plus récent au plus
// ancien.
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT order_id, reference, items_json, shipping_json, amount_total, status, created_at, updated_at
		FROM orders_by_user WHERE user_id = ?`, userID).Iter()

	var orders []models.Order
	var (
		orderID                            gocql.UUID
		reference, itemsJSON, shippingJSON string
		amountTotal                        float64
		status                             string
		createdAt, updatedAt               time.Time
	)
	for iter.Scan(&orderID, &reference, &itemsJSON, &shippingJSON, &amountTotal, &status, &createdAt, &updatedAt) {
		orders = append(orders, scanOrder(orderID, userID, reference, itemsJSON, shippingJSON,
			amountTotal, status, createdAt, updatedAt))
	}
	if err := iter.Close(); err != nil {
		log.Println("❌ Erreur lecture commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// ✅ GET /api/orders/:id : une commande précise, avec contrôle de propriété.
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var (
		ownerID                            string
		reference, itemsJSON, shippingJSON string
		amountTotal                        float64
		status                             string
		createdAt, updatedAt               time.Time
	)
	err = session.Query(`SELECT user_id, reference, items_json, shipping_json, amount_total, status, created_at, updated_at
		FROM orders WHERE order_id = ?`, orderID).Scan(
		&ownerID, &reference, &itemsJSON, &shippingJSON, &amountTotal, &status, &createdAt, &updatedAt)
	if err != nil || ownerID != userID {
		// Même réponse qu'une commande inexistante : pas de fuite d'info.
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, scanOrder(orderID, userID, reference, itemsJSON, shippingJSON,
		amountTotal, status, createdAt, updatedAt))
}

// 🔁 POST /api/orders/:id/reorder : reconstruit des lignes de panier depuis
// une ancienne commande et les fusionne avec le panier courant. Les lignes
// reconstruites portent l'identifiant catalogue du produit, donc elles
// fusionnent avec celles ajoutées depuis les fiches produit.
func Reorder(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var ownerID, itemsJSON string
	err = session.Query(`SELECT user_id, items_json FROM orders WHERE order_id = ?`, orderID).
		Scan(&ownerID, &itemsJSON)
	if err != nil || ownerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	var orderItems []models.OrderItem
	if err := json.Unmarshal([]byte(itemsJSON), &orderItems); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage commande"})
		return
	}

	ctx := context.Background()
	cart, err := loadCart(ctx, userID)
	if err != nil {
		cart = []models.CartItem{}
	}

	for _, it := range orderItems {
		cart = append(cart, it.CartItem())
	}
	cart = models.MergeCartItems(cart)

	if err := saveCart(ctx, userID, cart); err != nil {
		log.Printf("❌ Erreur sauvegarde panier %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Articles ajoutés au panier", "items": cart})
}
