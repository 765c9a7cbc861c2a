package user

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"modessa_back_end/internal/cache"
	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"
	"modessa_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// orderReference fabrique une référence lisible du type MOD-20260831-A1B2C3.
func orderReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("MOD-%s-%s", now.Format("20060102"), suffix)
}

//
// 💳 POST /api/checkout
//
// Paiement simulé : la commande passe directement en "confirmed". Le handler
// vérifie l'adresse, revalide chaque ligne du panier contre le catalogue et
// le stock des déclinaisons, décrémente le stock, enregistre la commande,
// vide le panier et envoie la confirmation par mail en tâche de fond.
func Checkout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	var input struct {
		AddressID string `json:"addressId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := context.Background()

	// 1. Panier courant
	cart, err := loadCart(ctx, userID)
	if err != nil || len(cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	// 2. L'adresse doit appartenir au user
	addressID, err := gocql.ParseUUID(input.AddressID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID adresse invalide"})
		return
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var shipping models.Address
	var ownerID string
	err = usersSession.Query(`SELECT user_id, street, city, postal_code, country FROM addresses WHERE address_id = ?`,
		addressID).Scan(&ownerID, &shipping.Street, &shipping.City, &shipping.PostalCode, &shipping.Country)
	if err != nil || ownerID != userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse introuvable"})
		return
	}
	shipping.ID = addressID
	shipping.UserID = userID

	// 3. Revalidation du panier contre le catalogue et le stock
	productsSession, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	items := make([]models.OrderItem, 0, len(cart))
	remaining := make([]int, 0, len(cart)) // stock restant après la commande, aligné sur items
	total := 0.0
	for _, line := range cart {
		pid, err := gocql.ParseUUID(line.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide", "product": line.ProductID})
			return
		}

		product, err := cache.GetProductFromCache(line.ProductID)
		if err != nil || !product.IsActive {
			c.JSON(http.StatusConflict, gin.H{"error": "Produit plus disponible", "product": line.ProductID})
			return
		}

		stock, ok := variantStock(pid, line.Size, line.Color)
		if !ok || stock < line.Quantity {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "Stock insuffisant",
				"product":   product.Name,
				"size":      line.Size,
				"color":     line.Color,
				"available": stock,
				"requested": line.Quantity,
			})
			return
		}

		imageURL := line.ImageURL
		if len(product.ImageURLs) > 0 {
			imageURL = product.ImageURLs[0]
		}

		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      product.Name,
			ImageURL:  imageURL,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
		})
		remaining = append(remaining, stock-line.Quantity)
		total += product.Price * float64(line.Quantity)
	}

	// 4. Décrément du stock, déclinaison par déclinaison (lecture faite au
	// point 3, écriture de la valeur absolue : CQL ne fait pas d'arithmétique
	// sur les colonnes ordinaires)
	for i, it := range items {
		pid, _ := gocql.ParseUUID(it.ProductID)
		if err := productsSession.Query(
			`UPDATE product_variants SET stock = ? WHERE product_id = ? AND size = ? AND color = ?`,
			remaining[i], pid, it.Size, it.Color).Exec(); err != nil {
			log.Printf("⚠️ Décrément stock raté pour %s (%s/%s): %v", it.ProductID, it.Size, it.Color, err)
		}
		cache.InvalidateProductCache(it.ProductID)
	}

	// 5. Enregistrement de la commande
	now := time.Now()
	order := models.Order{
		ID:          gocql.UUID(uuid.New()),
		UserID:      userID,
		Reference:   orderReference(now),
		Items:       items,
		AmountTotal: total,
		Status:      models.OrderStatusConfirmed,
		Shipping:    shipping,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	itemsJSON, _ := json.Marshal(order.Items)
	shippingJSON, _ := json.Marshal(order.Shipping)

	if err := ordersSession.Query(`INSERT INTO orders (order_id, user_id, reference, items_json, shipping_json, amount_total, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, userID, order.Reference, string(itemsJSON), string(shippingJSON),
		order.AmountTotal, order.Status, now, now).Exec(); err != nil {
		log.Println("❌ Erreur insertion commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement commande"})
		return
	}
	if err := ordersSession.Query(`INSERT INTO orders_by_user (user_id, order_id, reference, items_json, shipping_json, amount_total, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, order.ID, order.Reference, string(itemsJSON), string(shippingJSON),
		order.AmountTotal, order.Status, now, now).Exec(); err != nil {
		log.Println("⚠️ Erreur insertion index commandes:", err)
	}

	// 6. Panier vidé, les autres onglets sont prévenus
	database.Redis.Del(ctx, cartKey(userID))
	database.Redis.Publish(ctx, cartKey(userID), "cleared")

	// 7. Confirmation par mail en tâche de fond
	email := c.GetString("email")
	if email != "" {
		go sendOrderConfirmation(email, order)
	}

	log.Printf("✅ Commande %s confirmée pour %s (%.2f€)", order.Reference, userID, total)

	c.JSON(http.StatusCreated, gin.H{
		"orderId":   order.ID.String(),
		"reference": order.Reference,
		"status":    order.Status,
		"total":     order.AmountTotal,
	})
}

// sendOrderConfirmation prépare le QR SEPA, la facture PDF et le mail. Tout
// échec est loggé mais n'impacte pas la commande.
func sendOrderConfirmation(email string, order models.Order) {
	qrBase64, err := utils.GenerateSepaQR(
		os.Getenv("SEPA_IBAN"), os.Getenv("SEPA_BIC"), "Modessa SAS",
		order.Reference, order.AmountTotal)
	if err != nil {
		log.Println("⚠️ Erreur génération QR SEPA:", err)
		qrBase64 = ""
	}

	var pdf []byte
	pdf, err = utils.RenderInvoicePDF(utils.GetFrontendInvoiceBaseURL(), order.ID.String(), qrBase64)
	if err != nil {
		log.Println("⚠️ Erreur génération facture PDF:", err)
		pdf = nil
	}

	html := utils.GenerateOrderConfirmationHTML(order, qrBase64)
	subject := "Votre commande Modessa " + order.Reference
	if err := utils.SendOrderConfirmationEmail(email, subject, html, pdf); err != nil {
		log.Println("⚠️ Erreur envoi mail confirmation:", err)
	}
}
