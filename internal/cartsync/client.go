package cartsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
)

// Client est l'implémentation HTTP de SessionProvider et CartStorage contre
// l'API Modessa. Les identifiants de session circulent via le cookie HttpOnly
// posé au login : le jar du client joue le rôle du cookie ambiant du
// navigateur.
type Client struct {
	base string
	http *http.Client
}

// NewClient construit un client pour l'API à l'adresse donnée
// (ex: http://localhost:8080).
func NewClient(base string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{base: base, http: &http.Client{Jar: jar}}, nil
}

// Login ouvre une session locale (email + mot de passe). Le cookie de session
// retourné par le serveur est conservé dans le jar pour les appels suivants.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	var resp struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
		Name   string `json:"name"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(body), &resp); err != nil {
		return Session{}, err
	}
	return Session{Authenticated: true, UserID: resp.UserID, Email: resp.Email, Name: resp.Name}, nil
}

// CheckSession interroge GET /api/auth/check-session.
func (c *Client) CheckSession(ctx context.Context) (Session, error) {
	var resp struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			UserID string `json:"user_id"`
			Email  string `json:"email"`
			Name   string `json:"name"`
		} `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/check-session", nil, &resp); err != nil {
		return Session{}, err
	}
	return Session{
		Authenticated: resp.Authenticated,
		UserID:        resp.User.UserID,
		Email:         resp.User.Email,
		Name:          resp.User.Name,
	}, nil
}

// Logout invalide la session côté serveur (POST /api/auth/logout).
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Fetch récupère le panier serveur (GET /api/cart). Un panier inexistant est
// retourné comme une séquence vide, pas comme une erreur.
func (c *Client) Fetch(ctx context.Context) ([]CartLine, error) {
	var resp struct {
		Items []CartLine `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Replace écrase intégralement le panier serveur (PUT /api/cart) et retourne
// l'état que le serveur a retenu — c'est lui qui fait foi.
func (c *Client) Replace(ctx context.Context, lines []CartLine) ([]CartLine, error) {
	if lines == nil {
		lines = []CartLine{}
	}
	body, err := json.Marshal(map[string][]CartLine{"items": lines})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Items []CartLine `json:"items"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/cart", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Clear supprime le panier serveur (DELETE /api/cart).
func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/cart", nil, nil)
}

// do exécute une requête JSON. Un 401 est traduit en ErrSessionExpired pour
// que le synchroniseur bascule en non authentifié ; toute autre réponse
// non-2xx remonte le message d'erreur du serveur tel quel.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("cartsync: %s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("cartsync: %s %s: statut %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
