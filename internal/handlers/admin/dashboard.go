package admin

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// 📊 GET /api/admin/dashboard : agrégats de vente pour le back-office.
// Scan des commandes puis agrégation en mémoire : Scylla n'a pas de GROUP BY
// et le volume reste raisonnable pour un tableau de bord.
func Dashboard(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT order_id, items_json, amount_total, status, created_at FROM orders`).Iter()

	var (
		orderID     gocql.UUID
		itemsJSON   string
		amountTotal float64
		status      string
		createdAt   time.Time
	)

	type productSales struct {
		ProductID string  `json:"productId"`
		Name      string  `json:"productName"`
		Quantity  int     `json:"quantity"`
		Revenue   float64 `json:"revenue"`
	}

	var (
		totalOrders   int
		totalRevenue  float64
		byStatus      = map[string]int{}
		last30Days    int
		last30Revenue float64
		salesByProd   = map[string]*productSales{}
	)
	cutoff := time.Now().AddDate(0, 0, -30)

	for iter.Scan(&orderID, &itemsJSON, &amountTotal, &status, &createdAt) {
		totalOrders++
		byStatus[status]++
		if status == models.OrderStatusCancelled {
			continue
		}

		totalRevenue += amountTotal
		if createdAt.After(cutoff) {
			last30Days++
			last30Revenue += amountTotal
		}

		var items []models.OrderItem
		if json.Unmarshal([]byte(itemsJSON), &items) != nil {
			continue
		}
		for _, it := range items {
			s, ok := salesByProd[it.ProductID]
			if !ok {
				s = &productSales{ProductID: it.ProductID, Name: it.Name}
				salesByProd[it.ProductID] = s
			}
			s.Quantity += it.Quantity
			s.Revenue += it.Price * float64(it.Quantity)
		}
	}
	if err := iter.Close(); err != nil {
		log.Println("❌ Erreur lecture commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération statistiques"})
		return
	}

	// Top 10 produits par chiffre d'affaires
	top := make([]*productSales, 0, len(salesByProd))
	for _, s := range salesByProd {
		top = append(top, s)
	}
	for i := 0; i < len(top); i++ {
		for j := i + 1; j < len(top); j++ {
			if top[j].Revenue > top[i].Revenue {
				top[i], top[j] = top[j], top[i]
			}
		}
	}
	if len(top) > 10 {
		top = top[:10]
	}

	c.JSON(http.StatusOK, gin.H{
		"total_orders":     totalOrders,
		"total_revenue":    totalRevenue,
		"orders_by_status": byStatus,
		"last_30_days": gin.H{
			"orders":  last30Days,
			"revenue": last30Revenue,
		},
		"top_products": top,
	})
}
