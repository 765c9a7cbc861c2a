package cartsync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	sess        Session
	checkErr    error
	logoutErr   error
	logoutCalls int
}

func (f *fakeSession) CheckSession(ctx context.Context) (Session, error) {
	return f.sess, f.checkErr
}

func (f *fakeSession) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

// fakeStorage rejoue le contrat serveur : par défaut Replace fait écho à la
// requête (serveur qui accepte tout), replaceResp permet de simuler un
// serveur qui plafonne ou rejette des lignes.
type fakeStorage struct {
	fetchLines  []CartLine
	fetchErr    error
	fetchHook   func()
	replaceResp []CartLine
	replaceErr  error
	clearErr    error

	replaceCalls int
	lastReplace  []CartLine
	clearCalls   int
}

func (f *fakeStorage) Fetch(ctx context.Context) ([]CartLine, error) {
	if f.fetchHook != nil {
		f.fetchHook()
	}
	return f.fetchLines, f.fetchErr
}

func (f *fakeStorage) Replace(ctx context.Context, lines []CartLine) ([]CartLine, error) {
	f.replaceCalls++
	f.lastReplace = lines
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	if f.replaceResp != nil {
		return f.replaceResp, nil
	}
	return lines, nil
}

func (f *fakeStorage) Clear(ctx context.Context) error {
	f.clearCalls++
	return f.clearErr
}

func line(productID, size, color string, price float64, qty int) CartLine {
	return CartLine{ProductID: productID, Name: "Produit " + productID, Price: price, Quantity: qty, Size: size, Color: color}
}

// newAuthenticated construit un synchroniseur initialisé avec une session
// valide et le panier serveur donné.
func newAuthenticated(t *testing.T, lines ...CartLine) (*Synchronizer, *fakeStorage) {
	t.Helper()
	session := &fakeSession{sess: Session{Authenticated: true, UserID: "u-1"}}
	storage := &fakeStorage{fetchLines: lines}
	s := New(session, storage)
	require.NoError(t, s.Init(context.Background()))
	require.True(t, s.Authenticated())
	return s, storage
}

func TestAddToCart_MergeByIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("même triplet fusionne les quantités", func(t *testing.T) {
		s, _ := newAuthenticated(t, line("A", "M", "noir", 49.90, 3))

		require.NoError(t, s.AddToCart(ctx, line("A", "M", "noir", 49.90, 2)))

		lines := s.Lines()
		require.Len(t, lines, 1, "jamais deux lignes pour le même triplet")
		assert.Equal(t, 5, lines[0].Quantity)
	})

	t.Run("couleur différente donne une ligne distincte", func(t *testing.T) {
		s, _ := newAuthenticated(t)

		require.NoError(t, s.AddToCart(ctx, line("A", "M", "noir", 49.90, 1)))
		require.NoError(t, s.AddToCart(ctx, line("A", "M", "écru", 49.90, 1)))

		assert.Len(t, s.Lines(), 2)
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("quantité sous le plancher ignorée sans appel réseau", func(t *testing.T) {
		s, storage := newAuthenticated(t, line("A", "M", "noir", 49.90, 3))

		require.NoError(t, s.UpdateQuantity(ctx, "A", "M", "noir", 0))

		assert.Zero(t, storage.replaceCalls, "aucun sync ne doit partir")
		assert.Equal(t, 3, s.Lines()[0].Quantity)
	})

	t.Run("quantité valide synchronisée", func(t *testing.T) {
		s, storage := newAuthenticated(t, line("A", "M", "noir", 49.90, 3))

		require.NoError(t, s.UpdateQuantity(ctx, "A", "M", "noir", 7))

		assert.Equal(t, 1, storage.replaceCalls)
		assert.Equal(t, 7, s.Lines()[0].Quantity)
	})
}

func TestRemoveFromCart(t *testing.T) {
	s, storage := newAuthenticated(t,
		line("A", "M", "noir", 49.90, 1),
		line("B", "38", "camel", 89.00, 2),
	)

	require.NoError(t, s.RemoveFromCart(context.Background(), "A", "M", "noir"))

	require.Len(t, s.Lines(), 1)
	assert.Equal(t, "B", s.Lines()[0].ProductID)
	assert.Len(t, storage.lastReplace, 1, "le remplacement porte les lignes restantes")
}

func TestUnauthenticatedGuard(t *testing.T) {
	// Session absente : toute mutation est rejetée localement, sans réseau.
	session := &fakeSession{sess: Session{Authenticated: false}}
	storage := &fakeStorage{}
	s := New(session, storage)
	require.NoError(t, s.Init(context.Background()))
	require.False(t, s.Authenticated())

	ctx := context.Background()
	assert.ErrorIs(t, s.AddToCart(ctx, line("A", "M", "noir", 49.90, 1)), ErrNotAuthenticated)
	assert.ErrorIs(t, s.UpdateQuantity(ctx, "A", "M", "noir", 2), ErrNotAuthenticated)
	assert.ErrorIs(t, s.RemoveFromCart(ctx, "A", "M", "noir"), ErrNotAuthenticated)
	assert.ErrorIs(t, s.ClearCart(ctx), ErrNotAuthenticated)

	assert.Zero(t, storage.replaceCalls)
	assert.Zero(t, storage.clearCalls)
	assert.Empty(t, s.Lines())
}

func TestSyncReplace_ServerIsAuthoritative(t *testing.T) {
	// Le client calcule 3 lignes, le serveur n'en retient que 2 (stock
	// insuffisant sur la troisième) : le cache doit adopter les 2 du serveur.
	s, storage := newAuthenticated(t,
		line("A", "M", "noir", 49.90, 1),
		line("B", "38", "camel", 89.00, 1),
	)
	storage.replaceResp = []CartLine{
		line("A", "M", "noir", 49.90, 1),
		line("B", "38", "camel", 89.00, 1),
	}

	require.NoError(t, s.AddToCart(context.Background(), line("C", "S", "bordeaux", 35.00, 4)))

	assert.Len(t, storage.lastReplace, 3, "la requête portait bien 3 lignes")
	assert.Len(t, s.Lines(), 2, "seule la réponse serveur fait foi")
}

func TestSyncReplace_FailureLeavesCacheUntouched(t *testing.T) {
	s, storage := newAuthenticated(t, line("A", "M", "noir", 49.90, 2))
	storage.replaceErr = errors.New("réseau coupé")

	err := s.AddToCart(context.Background(), line("B", "38", "camel", 89.00, 1))

	require.Error(t, err)
	require.Len(t, s.Lines(), 1, "la mutation calculée n'est jamais appliquée localement")
	assert.Equal(t, 2, s.Lines()[0].Quantity)
	assert.False(t, s.Syncing(), "le flag de sync est retombé malgré l'échec")
	assert.True(t, s.Authenticated())
}

func TestSyncReplace_SessionExpired(t *testing.T) {
	s, storage := newAuthenticated(t, line("A", "M", "noir", 49.90, 2))
	storage.replaceErr = ErrSessionExpired

	err := s.UpdateQuantity(context.Background(), "A", "M", "noir", 5)

	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, s.Authenticated(), "un 401 bascule en non authentifié")
	// Le cache reste en l'état (périmé) jusqu'à la prochaine initialisation.
	assert.Len(t, s.Lines(), 1)
}

func TestInit_FailClosed(t *testing.T) {
	t.Run("check-session en erreur vide le cache précédent", func(t *testing.T) {
		session := &fakeSession{sess: Session{Authenticated: true, UserID: "u-1"}}
		storage := &fakeStorage{fetchLines: []CartLine{line("A", "M", "noir", 49.90, 2)}}
		s := New(session, storage)
		require.NoError(t, s.Init(context.Background()))
		require.NotEmpty(t, s.Lines())

		// Nouvelle initialisation avec un check-session qui casse.
		session.checkErr = errors.New("timeout")
		err := s.Init(context.Background())

		require.Error(t, err)
		assert.False(t, s.Authenticated())
		assert.Empty(t, s.Lines(), "jamais de panier exposé sur session douteuse")
	})

	t.Run("chargement du panier en erreur aussi", func(t *testing.T) {
		session := &fakeSession{sess: Session{Authenticated: true}}
		storage := &fakeStorage{fetchErr: errors.New("panne redis")}
		s := New(session, storage)

		require.Error(t, s.Init(context.Background()))
		assert.False(t, s.Authenticated())
		assert.Empty(t, s.Lines())
	})

	t.Run("fermeture pendant l'appel écarte le résultat", func(t *testing.T) {
		session := &fakeSession{sess: Session{Authenticated: true}}
		storage := &fakeStorage{fetchLines: []CartLine{line("A", "M", "noir", 49.90, 1)}}
		s := New(session, storage)
		storage.fetchHook = func() { s.Close() }

		assert.ErrorIs(t, s.Init(context.Background()), ErrClosed)
		assert.Empty(t, s.Lines())
		assert.False(t, s.Authenticated())
	})
}

func TestDerivedTotals(t *testing.T) {
	s, _ := newAuthenticated(t,
		line("A", "M", "noir", 100, 2),
		line("B", "38", "camel", 50, 1),
	)

	assert.Equal(t, 3, s.TotalItems())
	assert.InDelta(t, 250.0, s.TotalPrice(), 1e-9)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()

	t.Run("succès vide le cache local", func(t *testing.T) {
		s, storage := newAuthenticated(t, line("A", "M", "noir", 49.90, 2))

		require.NoError(t, s.ClearCart(ctx))

		assert.Equal(t, 1, storage.clearCalls)
		assert.Empty(t, s.Lines())
	})

	t.Run("échec laisse l'état inchangé", func(t *testing.T) {
		s, storage := newAuthenticated(t, line("A", "M", "noir", 49.90, 2))
		storage.clearErr = errors.New("réseau coupé")

		require.Error(t, s.ClearCart(ctx))
		assert.Len(t, s.Lines(), 1)
	})
}

func TestLogout_AlwaysClears(t *testing.T) {
	t.Run("déconnexion nominale", func(t *testing.T) {
		s, _ := newAuthenticated(t, line("A", "M", "noir", 49.90, 2))

		require.NoError(t, s.Logout(context.Background()))

		assert.False(t, s.Authenticated())
		assert.Empty(t, s.Lines())
	})

	t.Run("échec serveur avalé, état local vidé quand même", func(t *testing.T) {
		session := &fakeSession{sess: Session{Authenticated: true}, logoutErr: errors.New("503")}
		storage := &fakeStorage{fetchLines: []CartLine{line("A", "M", "noir", 49.90, 2)}}
		s := New(session, storage)
		require.NoError(t, s.Init(context.Background()))

		require.NoError(t, s.Logout(context.Background()))

		assert.Equal(t, 1, session.logoutCalls)
		assert.False(t, s.Authenticated())
		assert.Empty(t, s.Lines())
	})
}
