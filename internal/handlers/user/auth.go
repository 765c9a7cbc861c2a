package user

import (
	"log"
	"net/http"
	"os"
	"time"

	"modessa_back_end/internal/cache"
	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"
	"modessa_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// setSessionCookie pose le JWT en cookie HttpOnly : c'est le "cookie ambiant"
// qu'envoient le front web et le client de synchronisation du panier.
func setSessionCookie(c *gin.Context, token string) {
	secure := os.Getenv("COOKIE_SECURE") == "true" // false en dev, true en prod
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookieName, token, int(utils.SessionTTL.Seconds()), "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookieName, "", -1, "/", "", false, true)
}

// Register crée un compte local.
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// email déjà pris ?
	var existingID gocql.UUID
	if err := session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, input.Email).
		Scan(&existingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	userID := gocql.UUID(uuid.New())
	now := time.Now()

	if err := session.Query(`INSERT INTO users (user_id, email, name, password, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, input.Email, input.Name, hashedPassword, "customer", now).Exec(); err != nil {
		log.Printf("❌ Erreur insertion utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}
	if err := session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`,
		input.Email, userID).Exec(); err != nil {
		log.Printf("❌ Erreur insertion index email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	user := models.User{ID: userID.String(), Name: input.Name, Email: input.Email, Role: "customer"}
	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	setSessionCookie(c, token)
	log.Printf("✅ Compte créé: %s", input.Email)

	c.JSON(http.StatusCreated, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
	})
}

// Login ouvre une session locale (email + mot de passe).
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var userID gocql.UUID
	if err := session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, input.Email).
		Scan(&userID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	var name, hashedPassword, role string
	if err := session.Query(`SELECT name, password, role FROM users WHERE user_id = ?`, userID).
		Scan(&name, &hashedPassword, &role); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, hashedPassword)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	user := models.User{ID: userID.String(), Name: name, Email: input.Email, Role: role}
	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
	})
}

// CheckSession indique si la requête porte une session valide. Jamais de 401
// ici : un client sans session reçoit {authenticated: false} en 200.
func CheckSession(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	// Profil depuis le cache (Redis puis Scylla) pour enrichir la réponse.
	user, err := cache.GetUserFromCache(userID)
	if err != nil {
		// La session est valide même si le profil est momentanément illisible.
		c.JSON(http.StatusOK, gin.H{
			"authenticated": true,
			"user":          gin.H{"user_id": userID, "email": c.GetString("email")},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
}

// Logout invalide la session : le cookie est écrasé côté client.
func Logout(c *gin.Context) {
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Déconnecté"})
}
