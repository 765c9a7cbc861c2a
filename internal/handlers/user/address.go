package user

import (
	"log"
	"net/http"

	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

//
// --- HANDLERS ADRESSES ---
//

// 🟢 GET /api/addresses
func ListMyAddresses(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		log.Printf("❌ Erreur session ScyllaDB: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	results := []models.Address{}
	iter := session.Query(`SELECT address_id, street, postal_code, city, country, is_default
		FROM addresses WHERE user_id = ? ALLOW FILTERING`, userID).Iter()
	var (
		addressID                        gocql.UUID
		street, postalCode, cityName, country string
		isDefault                        bool
	)
	for iter.Scan(&addressID, &street, &postalCode, &cityName, &country, &isDefault) {
		results = append(results, models.Address{
			ID:         addressID,
			UserID:     userID,
			Street:     street,
			PostalCode: postalCode,
			City:       cityName,
			Country:    country,
			IsDefault:  isDefault,
		})
	}
	if err := iter.Close(); err != nil {
		log.Printf("⚠️ Erreur fermeture iter: %v", err)
	}

	c.JSON(http.StatusOK, results)
}

// 🟢 POST /api/addresses
func CreateAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	var input models.Address
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	input.ID = gocql.TimeUUID()
	input.UserID = userID
	input.IsDefault = false

	if err := session.Query(`INSERT INTO addresses (address_id, user_id, street, postal_code, city, country, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		input.ID, userID, input.Street, input.PostalCode, input.City, input.Country, false).Exec(); err != nil {
		log.Printf("❌ Erreur insertion adresse: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible d'ajouter l'adresse"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Adresse créée", "address": input})
}

// 🟢 POST /api/addresses/:id/default
func MakeDefaultAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	addressID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var ownerID string
	if err := session.Query(`SELECT user_id FROM addresses WHERE address_id = ?`, addressID).
		Scan(&ownerID); err != nil || ownerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse non trouvée"})
		return
	}

	// Désactiver les autres (scan car Scylla ne fait pas d'UPDATE conditionnel multi-lignes)
	iter := session.Query(`SELECT address_id FROM addresses WHERE user_id = ? ALLOW FILTERING`, userID).Iter()
	var otherID gocql.UUID
	for iter.Scan(&otherID) {
		if otherID != addressID {
			session.Query(`UPDATE addresses SET is_default = ? WHERE address_id = ?`, false, otherID).Exec()
		}
	}
	iter.Close()

	if err := session.Query(`UPDATE addresses SET is_default = ? WHERE address_id = ?`, true, addressID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de définir par défaut"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse mise par défaut", "id": addressID.String()})
}

// 🟢 DELETE /api/addresses/:id
func DeleteAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	addressID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var ownerID string
	if err := session.Query(`SELECT user_id FROM addresses WHERE address_id = ?`, addressID).
		Scan(&ownerID); err != nil || ownerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse non trouvée"})
		return
	}

	if err := session.Query(`DELETE FROM addresses WHERE address_id = ?`, addressID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Suppression impossible"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse supprimée"})
}
