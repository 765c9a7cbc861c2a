package product

import (
	"net/http"
	"strings"

	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"
	"modessa_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// 🔎 GET /api/products/search?q=...
//
// Recherche Elasticsearch en priorité, repli sur un scan ScyllaDB filtré en
// mémoire si l'index est vide ou indisponible.
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, results)
		return
	}

	// Repli ScyllaDB : scan complet, acceptable tant que le catalogue reste
	// petit. Elasticsearch est la voie nominale.
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id, name, description, price, sku, category_id, image_urls, tags, sizes, colors, is_active, created_at, updated_at FROM products`).Iter()
	all := scanProducts(iter)
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche: " + err.Error()})
		return
	}

	matched := []models.Product{}
	for _, p := range all {
		if containsIgnoreCase(p.Name, query) || containsIgnoreCase(p.Description, query) ||
			anyContainsIgnoreCase(p.Tags, query) || anyContainsIgnoreCase(p.Colors, query) {
			matched = append(matched, p)
		}
	}

	c.JSON(http.StatusOK, matched)
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func anyContainsIgnoreCase(values []string, substr string) bool {
	for _, v := range values {
		if containsIgnoreCase(v, substr) {
			return true
		}
	}
	return false
}
