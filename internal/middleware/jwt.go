package middleware

import (
	"log"
	"net/http"
	"strings"

	"modessa_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired authentifie la requête. Le token est cherché d'abord dans le
// cookie de session (clients web et bornes, via le jar du client panier),
// puis dans le header Authorization (applications mobiles).
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token manquant"})
			c.Abort()
			return
		}

		claims, err := utils.ParseJWT(tokenString)
		if err != nil {
			log.Printf("❌ Erreur parsing JWT: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user_id manquant"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("email", claims["email"])
		c.Set("name", claims["name"])
		c.Set("role", claims["role"])

		c.Next()
	}
}

// AuthOptional pose le contexte utilisateur si un token valide est présent,
// sans rejeter la requête sinon (check-session s'appuie dessus).
func AuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromRequest(c); tokenString != "" {
			if claims, err := utils.ParseJWT(tokenString); err == nil {
				if userID, ok := claims["user_id"].(string); ok && userID != "" {
					c.Set("user_id", userID)
					c.Set("email", claims["email"])
					c.Set("name", claims["name"])
					c.Set("role", claims["role"])
				}
			}
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(utils.SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
