package admin

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"
	"modessa_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

var validStatuses = map[string]bool{
	models.OrderStatusConfirmed: true,
	models.OrderStatusShipped:   true,
	models.OrderStatusDelivered: true,
	models.OrderStatusCancelled: true,
}

// 🟢 GET /api/admin/orders : toutes les commandes, filtrables par statut.
func ListOrders(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	statusFilter := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit > 500 {
		limit = 500
	}

	query := `SELECT order_id, user_id, reference, items_json, shipping_json, amount_total, status, created_at, updated_at FROM orders`
	args := []interface{}{}
	if statusFilter != "" {
		query += ` WHERE status = ? ALLOW FILTERING`
		args = append(args, statusFilter)
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	iter := session.Query(query, args...).Iter()

	var orders []models.Order
	var (
		orderID                            gocql.UUID
		userID                             string
		reference, itemsJSON, shippingJSON string
		amountTotal                        float64
		status                             string
		createdAt, updatedAt               time.Time
	)
	for iter.Scan(&orderID, &userID, &reference, &itemsJSON, &shippingJSON, &amountTotal, &status, &createdAt, &updatedAt) {
		order := models.Order{
			ID: orderID, UserID: userID, Reference: reference,
			AmountTotal: amountTotal, Status: status,
			CreatedAt: createdAt, UpdatedAt: updatedAt,
		}
		json.Unmarshal([]byte(itemsJSON), &order.Items)
		json.Unmarshal([]byte(shippingJSON), &order.Shipping)
		orders = append(orders, order)
	}
	if err := iter.Close(); err != nil {
		log.Println("❌ Erreur lecture commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

// 🟢 PATCH /api/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !validStatuses[input.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var userID string
	if err := session.Query(`SELECT user_id FROM orders WHERE order_id = ?`, orderID).Scan(&userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	now := time.Now()
	if err := session.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
		input.Status, now, orderID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}
	if err := session.Query(`UPDATE orders_by_user SET status = ?, updated_at = ? WHERE user_id = ? AND order_id = ?`,
		input.Status, now, userID, orderID).Exec(); err != nil {
		log.Println("⚠️ Erreur mise à jour index commandes:", err)
	}

	log.Printf("✅ Commande %s → %s", orderID, input.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "status": input.Status})
}

// 🧾 GET /api/admin/orders/:id/invoice : régénère la facture PDF d'une
// commande via Chrome headless et la renvoie en téléchargement.
func DownloadInvoice(c *gin.Context) {
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

	var reference string
	var amountTotal float64
	if err := session.Query(`SELECT reference, amount_total FROM orders WHERE order_id = ?`, orderID).
		Scan(&reference, &amountTotal); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	qrBase64, err := utils.GenerateSepaQR(
		os.Getenv("SEPA_IBAN"), os.Getenv("SEPA_BIC"), "Modessa SAS", reference, amountTotal)
	if err != nil {
		log.Println("⚠️ Erreur génération QR SEPA:", err)
		qrBase64 = ""
	}

	pdf, err := utils.RenderInvoicePDF(utils.GetFrontendInvoiceBaseURL(), orderID.String(), qrBase64)
	if err != nil {
		log.Println("❌ Erreur génération facture PDF:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération facture"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="facture_`+reference+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
