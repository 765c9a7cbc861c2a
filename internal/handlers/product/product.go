package product

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"modessa_back_end/internal/cache"
	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"
	"modessa_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

const catalogCacheKey = "products:all"

func scanProducts(iter *gocql.Iter) []models.Product {
	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.SKU, &p.CategoryID,
		&p.ImageURLs, &p.Tags, &p.Sizes, &p.Colors, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		if p.IsActive {
			products = append(products, p)
		}
		p = models.Product{} // Reset pour la prochaine itération
	}
	return products
}

// 🟢 POST /api/products (admin)
func CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if p.CategoryID == (gocql.UUID{}) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'category_id' est obligatoire"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var categoryName string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`, p.CategoryID).
		Scan(&categoryName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie introuvable"})
		return
	}

	p.ID = gocql.TimeUUID()
	p.IsActive = true
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := session.Query(`INSERT INTO products (product_id, name, description, price, sku, category_id, image_urls, tags, sizes, colors, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.SKU, p.CategoryID, p.ImageURLs, p.Tags,
		p.Sizes, p.Colors, p.IsActive, p.CreatedAt, p.UpdatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	if err := session.Query(`INSERT INTO products_by_category (category_id, product_id, name, price) VALUES (?, ?, ?, ?)`,
		p.CategoryID, p.ID, p.Name, p.Price).Exec(); err != nil {
		log.Printf("⚠️ Erreur indexation products_by_category: %v", err)
	}

	database.Redis.Del(context.Background(), catalogCacheKey)

	// 🔄 Indexation Elasticsearch
	go services.IndexProduct(p)

	c.JSON(http.StatusCreated, p)
}

// 🟢 GET /api/products
func GetAllProducts(c *gin.Context) {
	ctx := context.Background()

	if val, err := database.Redis.Get(ctx, catalogCacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if json.Unmarshal([]byte(val), &cached) == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id, name, description, price, sku, category_id, image_urls, tags, sizes, colors, is_active, created_at, updated_at FROM products`).Iter()
	products := scanProducts(iter)
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	if data, err := json.Marshal(products); err == nil {
		database.Redis.Set(ctx, catalogCacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, products)
}

// 🟢 GET /api/products/:id
func GetProductByID(c *gin.Context) {
	product, err := cache.GetProductFromCache(c.Param("id"))
	if err != nil || !product.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// 🟢 PUT /api/products/:id (admin)
func UpdateProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Price       *float64  `json:"price"`
		ImageURLs   *[]string `json:"image_urls"`
		Tags        *[]string `json:"tags"`
		Sizes       *[]string `json:"sizes"`
		Colors      *[]string `json:"colors"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	product, err := cache.GetProductFromCache(productID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.ImageURLs != nil {
		product.ImageURLs = *input.ImageURLs
	}
	if input.Tags != nil {
		product.Tags = *input.Tags
	}
	if input.Sizes != nil {
		product.Sizes = *input.Sizes
	}
	if input.Colors != nil {
		product.Colors = *input.Colors
	}
	product.UpdatedAt = time.Now()

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE products SET name = ?, description = ?, price = ?, image_urls = ?, tags = ?, sizes = ?, colors = ?, updated_at = ?
		WHERE product_id = ?`,
		product.Name, product.Description, product.Price, product.ImageURLs, product.Tags,
		product.Sizes, product.Colors, product.UpdatedAt, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	cache.InvalidateProductCache(productID.String())
	database.Redis.Del(context.Background(), catalogCacheKey)
	go services.IndexProduct(*product)

	c.JSON(http.StatusOK, product)
}

// 🗑️ DELETE /api/products/:id (admin) : désactivation, pas de suppression
// physique. Les commandes passées gardent leurs instantanés.
func DeleteProduct(c *gin.Context) {
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

	if err := session.Query(`UPDATE products SET is_active = ?, updated_at = ? WHERE product_id = ?`,
		false, time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur désactivation produit"})
		return
	}

	cache.InvalidateProductCache(productID.String())
	database.Redis.Del(context.Background(), catalogCacheKey)
	go services.RemoveProductFromIndex(productID.String())

	c.JSON(http.StatusOK, gin.H{"message": "Produit désactivé"})
}
