package cache

import (
	"context"
	"encoding/json"
	"time"

	"modessa_back_end/internal/database"
	"modessa_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis ou ScyllaDB
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var email, name, role string
	err = session.Query(`SELECT email, name, role FROM users WHERE user_id = ?`,
		gocql.UUID(uid)).Scan(&email, &name, &role)
	if err != nil {
		return nil, err
	}

	user := &models.User{ID: userID, Email: email, Name: name, Role: role}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(user)
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "user:"+userID)
}

// GetProductFromCache récupère les champs d'instantané d'un produit (nom,
// prix, première image) depuis Redis ou ScyllaDB. Le stock n'est jamais
// caché : il se lit sur la variante, en direct.
func GetProductFromCache(productID string) (*models.Product, error) {
	ctx := context.Background()
	key := "product:" + productID

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var product models.Product
		if json.Unmarshal([]byte(data), &product) == nil {
			return &product, nil
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	pid, err := gocql.ParseUUID(productID)
	if err != nil {
		return nil, err
	}

	var product models.Product
	err = session.Query(`SELECT product_id, name, description, price, sku, category_id, image_urls, tags, sizes, colors, is_active
		FROM products WHERE product_id = ?`, pid).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &product.SKU,
		&product.CategoryID, &product.ImageURLs, &product.Tags, &product.Sizes, &product.Colors, &product.IsActive)
	if err != nil {
		return nil, err
	}

	jsonData, _ := json.Marshal(product)
	database.Redis.Set(ctx, key, jsonData, ProductCacheTTL)

	return &product, nil
}

// InvalidateProductCache invalide le cache d'un produit
func InvalidateProductCache(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID)
}
