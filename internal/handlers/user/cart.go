package user

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"modessa_back_end/internal/cache"
	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// CartTTL : un panier inactif expire au bout de 30 jours.
const CartTTL = 30 * 24 * time.Hour

func cartKey(userID string) string { return "cart:" + userID }

// loadCart lit le panier depuis Redis. Panier absent = panier vide.
func loadCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	data, err := database.Redis.Get(ctx, cartKey(userID)).Result()
	if err != nil || data == "" {
		return []models.CartItem{}, nil
	}

	var cart []models.CartItem
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// saveCart persiste le panier et notifie les autres onglets/appareils via
// le canal pub/sub du user.
func saveCart(ctx context.Context, userID string, cart []models.CartItem) error {
	jsonData, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	if err := database.Redis.Set(ctx, cartKey(userID), jsonData, CartTTL).Err(); err != nil {
		return err
	}
	database.Redis.Publish(ctx, cartKey(userID), "updated")
	return nil
}

// variantStock lit le stock d'une déclinaison (produit, taille, couleur) en
// direct dans ScyllaDB. Pas de cache ici : le stock bouge trop vite.
func variantStock(productID gocql.UUID, size, color string) (int, bool) {
	session, err := database.GetProductsSession()
	if err != nil {
		return 0, false
	}

	var stock int
	err = session.Query(`SELECT stock FROM product_variants WHERE product_id = ? AND size = ? AND color = ?`,
		productID, size, color).Scan(&stock)
	if err != nil {
		return 0, false
	}
	return stock, true
}

//
// 🛒 GET /api/cart
//
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	cart, err := loadCart(context.Background(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": cart})
}

//
// 🔁 PUT /api/cart
//
// Remplacement intégral : le client envoie son panier complet, le serveur le
// normalise et renvoie la version qui fait foi. Les doublons de triplet
// (produit, taille, couleur) sont fusionnés, nom/image/prix sont re-figés
// depuis le catalogue, et chaque quantité est plafonnée au stock de la
// déclinaison.
func ReplaceCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	var input struct {
		Items []models.CartItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	merged := models.MergeCartItems(input.Items)

	cart := make([]models.CartItem, 0, len(merged))
	for _, item := range merged {
		if item.Quantity < 1 {
			continue
		}

		pid, err := gocql.ParseUUID(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide", "product": item.ProductID})
			return
		}

		product, err := cache.GetProductFromCache(item.ProductID)
		if err != nil || !product.IsActive {
			// Produit retiré du catalogue : la ligne disparaît du panier.
			log.Printf("⚠️ Ligne panier ignorée, produit indisponible: %s", item.ProductID)
			continue
		}

		// Re-figer l'instantané depuis le catalogue, le client ne fait
		// pas foi sur ces champs.
		item.Name = product.Name
		item.Price = product.Price
		if len(product.ImageURLs) > 0 {
			item.ImageURL = product.ImageURLs[0]
		}

		if stock, ok := variantStock(pid, item.Size, item.Color); ok {
			if stock <= 0 {
				continue
			}
			if item.Quantity > stock {
				item.Quantity = stock
			}
		}

		cart = append(cart, item)
	}

	if err := saveCart(context.Background(), userID, cart); err != nil {
		log.Printf("❌ Erreur sauvegarde panier %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": cart})
}

//
// 🧹 DELETE /api/cart
//
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	ctx := context.Background()
	if err := database.Redis.Del(ctx, cartKey(userID)).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression panier"})
		return
	}
	database.Redis.Publish(ctx, cartKey(userID), "cleared")

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé", "items": []models.CartItem{}})
}
