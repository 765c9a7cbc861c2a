package product

import (
	"log"
	"net/http"
	"time"

	"modessa_back_end/internal/cache"
	"modessa_back_end/internal/database"
	"modessa_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// 🪣 POST /api/products/:id/images (admin) : upload d'un visuel produit vers
// MinIO, l'URL est ajoutée à la fiche.
func UploadImage(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' manquant"})
		return
	}

	product, err := cache.GetProductFromCache(productID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	url, err := services.UploadProductImage(file)
	if err != nil {
		log.Println("❌ Erreur upload MinIO:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	imageURLs := append(product.ImageURLs, url)
	if err := session.Query(`UPDATE products SET image_urls = ?, updated_at = ? WHERE product_id = ?`,
		imageURLs, time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	cache.InvalidateProductCache(productID.String())
	log.Printf("🪣 Image ajoutée au produit %s: %s", productID, url)

	c.JSON(http.StatusOK, gin.H{"url": url, "image_urls": imageURLs})
}
