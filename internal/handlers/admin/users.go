package admin

import (
	"log"
	"net/http"
	"strconv"

	"modessa_back_end/internal/cache"
	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// 🟢 GET /api/admin/users
func ListUsers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit > 500 {
		limit = 500
	}

	users := []models.User{}
	iter := session.Query(`SELECT user_id, email, name, role FROM users LIMIT ?`, limit).Iter()
	var (
		userID            gocql.UUID
		email, name, role string
	)
	for iter.Scan(&userID, &email, &name, &role) {
		users = append(users, models.User{ID: userID.String(), Email: email, Name: name, Role: role})
	}
	if err := iter.Close(); err != nil {
		log.Println("❌ Erreur lecture utilisateurs:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération utilisateurs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

// 🟢 PATCH /api/admin/users/:id/role
func UpdateUserRole(c *gin.Context) {
	userID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	var input struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil ||
		(input.Role != "customer" && input.Role != "admin") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var email string
	if err := session.Query(`SELECT email FROM users WHERE user_id = ?`, userID).Scan(&email); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	if err := session.Query(`UPDATE users SET role = ? WHERE user_id = ?`, input.Role, userID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour rôle"})
		return
	}

	cache.InvalidateUserCache(userID.String())
	log.Printf("✅ Rôle de %s → %s", email, input.Role)

	c.JSON(http.StatusOK, gin.H{"message": "Rôle mis à jour", "role": input.Role})
}

// 🗑️ DELETE /api/admin/users/:id : supprime le compte et ses données
// annexes (panier, wishlist, cache).
func DeleteUser(c *gin.Context) {
	userID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var email string
	if err := session.Query(`SELECT email FROM users WHERE user_id = ?`, userID).Scan(&email); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	if err := session.Query(`DELETE FROM users WHERE user_id = ?`, userID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression utilisateur"})
		return
	}
	session.Query(`DELETE FROM users_by_email WHERE email = ?`, email).Exec()
	session.Query(`DELETE FROM wishlist WHERE user_id = ?`, userID.String()).Exec()

	ctx := c.Request.Context()
	database.Redis.Del(ctx, "cart:"+userID.String(), "wishlist:"+userID.String())
	cache.InvalidateUserCache(userID.String())

	log.Printf("🗑️ Compte supprimé: %s", email)
	c.JSON(http.StatusOK, gin.H{"message": "Utilisateur supprimé"})
}
