package cartsync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fauxServeur minimal rejouant le contrat REST du backend : cookie de session
// posé au login, panier en mémoire, 401 sans cookie.
func newTestServer(t *testing.T) (*httptest.Server, *[]CartLine) {
	t.Helper()
	items := &[]CartLine{}

	mux := http.NewServeMux()
	authed := func(r *http.Request) bool {
		c, err := r.Cookie("modessa_session")
		return err == nil && c.Value == "jeton-valide"
	}

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Email ou mot de passe incorrect"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "modessa_session", Value: "jeton-valide", Path: "/"})
		_ = json.NewEncoder(w).Encode(map[string]string{"userId": "u-1", "email": in.Email, "name": "Clémence"})
	})
	mux.HandleFunc("GET /api/auth/check-session", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			_ = json.NewEncoder(w).Encode(map[string]any{"authenticated": false})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"authenticated": true,
			"user":          map[string]string{"user_id": "u-1", "email": "c@modessa.fr"},
		})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "modessa_session", Value: "", MaxAge: -1, Path: "/"})
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Déconnecté"})
	})
	mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Non authentifié"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"items": *items})
		case http.MethodPut:
			var in struct {
				Items []CartLine `json:"items"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Données invalides"})
				return
			}
			// Plafonnement façon serveur : jamais plus de 10 par ligne.
			for i := range in.Items {
				if in.Items[i].Quantity > 10 {
					in.Items[i].Quantity = 10
				}
			}
			*items = in.Items
			_ = json.NewEncoder(w).Encode(map[string]any{"items": *items})
		case http.MethodDelete:
			*items = []CartLine{}
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Panier vidé"})
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, items
}

func TestClient_CookieSession(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	// Sans login : pas de cookie, donc pas de session.
	sess, err := client.CheckSession(ctx)
	require.NoError(t, err)
	assert.False(t, sess.Authenticated)

	// Le login pose le cookie dans le jar, check-session le voit.
	_, err = client.Login(ctx, "c@modessa.fr", "s3cret")
	require.NoError(t, err)

	sess, err = client.CheckSession(ctx)
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	assert.Equal(t, "u-1", sess.UserID)
}

func TestClient_CartRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	_, err = client.Login(ctx, "c@modessa.fr", "s3cret")
	require.NoError(t, err)

	// Panier inexistant = séquence vide.
	lines, err := client.Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Remplacement intégral : la réponse serveur (plafonnée) fait foi.
	confirmed, err := client.Replace(ctx, []CartLine{line("A", "M", "noir", 49.90, 25)})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, 10, confirmed[0].Quantity, "le serveur a plafonné la quantité")

	require.NoError(t, client.Clear(ctx))
	lines, err = client.Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestClient_401BecomesErrSessionExpired(t *testing.T) {
	srv, _ := newTestServer(t)
	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)

	err = client.Clear(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestClient_ServerErrorMessagePassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Stock insuffisant"})
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Replace(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Stock insuffisant", "le message serveur remonte tel quel")
}

func TestSynchronizerAgainstHTTPServer(t *testing.T) {
	// Bout en bout : synchroniseur branché sur le client HTTP réel.
	srv, _ := newTestServer(t)
	ctx := context.Background()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	_, err = client.Login(ctx, "c@modessa.fr", "s3cret")
	require.NoError(t, err)

	s := New(client, client)
	require.NoError(t, s.Init(ctx))
	require.True(t, s.Authenticated())

	require.NoError(t, s.AddToCart(ctx, line("A", "M", "noir", 49.90, 2)))
	require.NoError(t, s.AddToCart(ctx, line("A", "M", "noir", 49.90, 3)))
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, 5, s.Lines()[0].Quantity)

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.Authenticated())

	// Après logout le cookie est tombé : mutation refusée localement.
	assert.ErrorIs(t, s.AddToCart(ctx, line("B", "38", "camel", 89.00, 1)), ErrNotAuthenticated)
}
