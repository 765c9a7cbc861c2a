package product

import (
	"log"
	"net/http"
	"time"

	"modessa_back_end/internal/cache"
	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// 🟢 GET /api/products/:id/variants : les déclinaisons taille/couleur d'un
// produit avec leur stock courant. C'est sur ces données que le front
// plafonne les quantités avant d'envoyer le panier.
func ListVariants(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	variants := []models.ProductVariant{}
	iter := session.Query(`SELECT id, sku, size, color, price, stock, is_active, created_at, updated_at
		FROM product_variants WHERE product_id = ?`, productID).Iter()
	var v models.ProductVariant
	for iter.Scan(&v.ID, &v.SKU, &v.Size, &v.Color, &v.Price, &v.Stock, &v.IsActive, &v.CreatedAt, &v.UpdatedAt) {
		v.ProductID = productID
		if v.IsActive {
			variants = append(variants, v)
		}
		v = models.ProductVariant{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture variantes: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"variants": variants})
}

// 🟢 PUT /api/products/:id/variants (admin) : crée ou met à jour une
// déclinaison. La clé est (produit, taille, couleur).
func UpsertVariant(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		SKU   string  `json:"sku"`
		Size  string  `json:"size" binding:"required"`
		Color string  `json:"color" binding:"required"`
		Price float64 `json:"price"`
		Stock int     `json:"stock"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock négatif"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	variant := models.ProductVariant{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		SKU:       input.SKU,
		Size:      input.Size,
		Color:     input.Color,
		Price:     input.Price,
		Stock:     input.Stock,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// INSERT en CQL écrase la ligne existante de même clé (upsert natif).
	if err := session.Query(`INSERT INTO product_variants (product_id, size, color, id, sku, price, stock, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		productID, variant.Size, variant.Color, variant.ID, variant.SKU, variant.Price,
		variant.Stock, variant.IsActive, variant.CreatedAt, variant.UpdatedAt).Exec(); err != nil {
		log.Println("❌ Erreur upsert variante:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement variante"})
		return
	}

	cache.InvalidateProductCache(productID.String())

	c.JSON(http.StatusOK, variant)
}

// 🟢 PATCH /api/products/:id/variants/stock (admin) : ajuste le stock d'une
// déclinaison.
func SetVariantStock(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Size  string `json:"size" binding:"required"`
		Color string `json:"color" binding:"required"`
		Stock int    `json:"stock"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock négatif"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE product_variants SET stock = ?, updated_at = ? WHERE product_id = ? AND size = ? AND color = ?`,
		input.Stock, time.Now(), productID, input.Size, input.Color).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock mis à jour", "stock": input.Stock})
}
