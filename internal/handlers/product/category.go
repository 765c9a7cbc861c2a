package product

import (
	"net/http"
	"strings"
	"time"

	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// 🟢 GET /api/categories
func GetAllCategories(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	categories := []models.Category{}
	iter := session.Query(`SELECT category_id, name, slug, description, image_url, created_at FROM categories`).Iter()
	var cat models.Category
	var createdAt time.Time
	for iter.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.ImageURL, &createdAt) {
		ts := createdAt
		cat.CreatedAt = &ts
		categories = append(categories, cat)
		cat = models.Category{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// 🟢 GET /api/categories/:id/products : aperçu des produits d'une catégorie
// (table dénormalisée products_by_category).
func GetProductsByCategory(c *gin.Context) {
	categoryID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	type preview struct {
		ProductID gocql.UUID `json:"id"`
		Name      string     `json:"name"`
		Price     float64    `json:"price"`
	}

	products := []preview{}
	iter := session.Query(`SELECT product_id, name, price FROM products_by_category WHERE category_id = ?`, categoryID).Iter()
	var p preview
	for iter.Scan(&p.ProductID, &p.Name, &p.Price) {
		products = append(products, p)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

// 🟢 POST /api/categories (admin)
func CreateCategory(c *gin.Context) {
	var input models.Category
	if err := c.ShouldBindJSON(&input); err != nil || input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Slug == "" {
		input.Slug = strings.ToLower(strings.ReplaceAll(input.Name, " ", "-"))
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	input.ID = gocql.TimeUUID()
	now := time.Now()
	input.CreatedAt = &now

	if err := session.Query(`INSERT INTO categories (category_id, name, slug, description, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		input.ID, input.Name, input.Slug, input.Description, input.ImageURL, now).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création catégorie"})
		return
	}

	c.JSON(http.StatusCreated, input)
}
