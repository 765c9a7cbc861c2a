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

const wishlistCacheTTL = 10 * time.Minute

func wishlistKey(userID string) string { return "wishlist:" + userID }

// ⭐ GET /api/wishlist
func GetWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	ctx := context.Background()

	// 1. Cache Redis
	if data, err := database.Redis.Get(ctx, wishlistKey(userID)).Result(); err == nil && data != "" {
		var wishlist models.Wishlist
		if json.Unmarshal([]byte(data), &wishlist) == nil {
			c.JSON(http.StatusOK, wishlist)
			return
		}
	}

	// 2. ScyllaDB
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id FROM wishlist WHERE user_id = ?`, userID).Iter()
	var productIDs []gocql.UUID
	var pid gocql.UUID
	for iter.Scan(&pid) {
		productIDs = append(productIDs, pid)
	}
	if err := iter.Close(); err != nil {
		log.Println("❌ Erreur lecture wishlist:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération wishlist"})
		return
	}

	// 3. Détails produits via le cache catalogue
	wishlist := models.Wishlist{UserID: userID, Items: []models.Product{}}
	for _, id := range productIDs {
		product, err := cache.GetProductFromCache(id.String())
		if err != nil || !product.IsActive {
			continue
		}
		wishlist.Items = append(wishlist.Items, *product)
	}

	jsonData, _ := json.Marshal(wishlist)
	database.Redis.Set(ctx, wishlistKey(userID), jsonData, wishlistCacheTTL)

	c.JSON(http.StatusOK, wishlist)
}

// ⭐ POST /api/wishlist/:productId
func AddToWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	productID, err := gocql.ParseUUID(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	// Le produit doit exister au catalogue
	if _, err := cache.GetProductFromCache(productID.String()); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`INSERT INTO wishlist (user_id, product_id, added_at) VALUES (?, ?, ?)`,
		userID, productID, time.Now()).Exec(); err != nil {
		log.Println("❌ Erreur insertion wishlist:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout wishlist"})
		return
	}

	database.Redis.Del(context.Background(), wishlistKey(userID))

	c.JSON(http.StatusOK, gin.H{"message": "Produit ajouté à la wishlist"})
}

// 🗑️ DELETE /api/wishlist/:productId
func RemoveFromWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	productID, err := gocql.ParseUUID(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM wishlist WHERE user_id = ? AND product_id = ?`,
		userID, productID).Exec(); err != nil {
		log.Println("❌ Erreur suppression wishlist:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression wishlist"})
		return
	}

	database.Redis.Del(context.Background(), wishlistKey(userID))

	c.JSON(http.StatusOK, gin.H{"message": "Produit retiré de la wishlist"})
}
