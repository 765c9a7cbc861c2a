package cartsync

import (
	"context"
	"errors"
	"log"
	"sync"
)

var (
	// ErrNotAuthenticated : mutation tentée sans session valide. Aucune
	// requête réseau n'est émise dans ce cas.
	ErrNotAuthenticated = errors.New("cartsync: utilisateur non authentifié")

	// ErrSessionExpired : le serveur a répondu 401 — la session a expiré
	// en cours de route.
	ErrSessionExpired = errors.New("cartsync: session expirée")

	// ErrClosed : le synchroniseur a été fermé, le résultat est ignoré.
	ErrClosed = errors.New("cartsync: synchroniseur fermé")
)

// Session décrit l'état de session retourné par le SessionProvider.
type Session struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
}

// SessionProvider est le collaborateur d'authentification (check-session / logout).
type SessionProvider interface {
	CheckSession(ctx context.Context) (Session, error)
	Logout(ctx context.Context) error
}

// CartStorage est la ressource panier côté serveur. Replace est un
// remplacement intégral : le serveur retourne l'état qu'il a réellement
// retenu (quantités éventuellement plafonnées par le stock).
type CartStorage interface {
	Fetch(ctx context.Context) ([]CartLine, error)
	Replace(ctx context.Context, lines []CartLine) ([]CartLine, error)
	Clear(ctx context.Context) error
}

// Synchronizer possède le panier en mémoire et sérialise chaque mutation en
// remplacement intégral contre le serveur. Les dépendances sont injectées au
// constructeur (pas de globales ici, contrairement au reste du backend) pour
// que chaque borne — et chaque test — ait son instance isolée.
//
// Chaque mutation prend opMu : au plus une écriture en vol à la fois, et
// chaque opération recalcule son delta sur le cache le plus récent. Le flag
// Syncing reste exposé pour que l'UI désactive ses contrôles, mais ce n'est
// plus lui qui protège la ressource.
type Synchronizer struct {
	session SessionProvider
	storage CartStorage

	opMu sync.Mutex // sérialise Init et les mutations

	mu            sync.RWMutex // protège l'état lu par l'UI
	lines         []CartLine
	authenticated bool
	syncing       bool
	closed        bool
}

// New construit un synchroniseur vide et non authentifié.
func New(session SessionProvider, storage CartStorage) *Synchronizer {
	return &Synchronizer{session: session, storage: storage}
}

// Init exécute le protocole d'initialisation : vérification de session puis
// chargement du panier serveur. Politique fail-closed : toute erreur (réseau,
// réponse invalide) laisse l'état "non authentifié, panier vide" — un
// check-session cassé ne doit jamais exposer un panier précédent.
func (s *Synchronizer) Init(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	sess, err := s.session.CheckSession(ctx)
	if err != nil || !sess.Authenticated {
		if err != nil {
			log.Printf("⚠️ cartsync: check-session échoué, repli non authentifié: %v", err)
		}
		s.reset(false)
		return err
	}

	lines, err := s.storage.Fetch(ctx)
	if err != nil {
		log.Printf("⚠️ cartsync: chargement du panier échoué, repli non authentifié: %v", err)
		s.reset(false)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		// Fermé pendant l'appel réseau : on n'applique pas un résultat périmé.
		return ErrClosed
	}
	s.authenticated = true
	s.lines = lines
	return nil
}

// Close marque le synchroniseur comme démonté. Les résultats d'un Init encore
// en vol seront ignorés.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Lines retourne une copie des lignes du panier.
func (s *Synchronizer) Lines() []CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]CartLine, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// TotalItems retourne le nombre total d'articles du panier local.
func (s *Synchronizer) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalItems(s.lines)
}

// TotalPrice retourne le montant total du panier local.
func (s *Synchronizer) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalPrice(s.lines)
}

// Authenticated indique si une session valide est connue.
func (s *Synchronizer) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Syncing indique si un appel réseau de synchronisation est en vol.
func (s *Synchronizer) Syncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncing
}

// AddToCart ajoute une ligne : quantité fusionnée si le triplet
// (produit, taille, couleur) existe déjà, ajout sinon.
func (s *Synchronizer) AddToCart(ctx context.Context, line CartLine) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.guard("addToCart") {
		return ErrNotAuthenticated
	}
	return s.syncReplace(ctx, MergeLine(s.Lines(), line))
}

// UpdateQuantity remplace la quantité de la ligne visée. Une quantité < 1 est
// ignorée : ni mutation locale, ni appel réseau.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, productID, size, color string, quantity int) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.guard("updateQuantity") {
		return ErrNotAuthenticated
	}
	if quantity < 1 {
		return nil
	}
	key := LineKey{ProductID: productID, Size: size, Color: color}
	return s.syncReplace(ctx, SetQuantity(s.Lines(), key, quantity))
}

// RemoveFromCart retire la ligne visée et synchronise le reste.
func (s *Synchronizer) RemoveFromCart(ctx context.Context, productID, size, color string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.guard("removeFromCart") {
		return ErrNotAuthenticated
	}
	key := LineKey{ProductID: productID, Size: size, Color: color}
	return s.syncReplace(ctx, RemoveLine(s.Lines(), key))
}

// ClearCart demande la suppression du panier serveur. Le cache local n'est
// vidé qu'en cas de succès ; sinon l'état est laissé tel quel et l'erreur
// remonte à l'appelant.
func (s *Synchronizer) ClearCart(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.guard("clearCart") {
		return ErrNotAuthenticated
	}

	s.setSyncing(true)
	defer s.setSyncing(false)

	if err := s.storage.Clear(ctx); err != nil {
		if errors.Is(err, ErrSessionExpired) {
			s.mu.Lock()
			s.authenticated = false
			s.mu.Unlock()
		}
		return err
	}

	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	return nil
}

// Logout déconnecte côté serveur puis réinitialise l'état local. L'échec
// réseau est avalé : une UI bloquée "connecté" est pire qu'un appel de
// déconnexion redondant.
func (s *Synchronizer) Logout(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.session.Logout(ctx); err != nil {
		log.Printf("⚠️ cartsync: logout serveur échoué (état local vidé quand même): %v", err)
	}
	s.reset(false)
	return nil
}

// syncReplace est la primitive de réconciliation : envoi de l'ensemble
// complet des lignes, adoption de la réponse serveur comme nouvelle vérité.
// En cas d'échec le cache local reste inchangé — l'ensemble calculé par
// l'appelant n'était qu'une charge utile, jamais un état.
func (s *Synchronizer) syncReplace(ctx context.Context, updated []CartLine) error {
	s.setSyncing(true)
	defer s.setSyncing(false)

	confirmed, err := s.storage.Replace(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			s.mu.Lock()
			s.authenticated = false
			s.mu.Unlock()
		}
		return err
	}

	s.mu.Lock()
	s.lines = confirmed
	s.mu.Unlock()
	return nil
}

// guard protège la ressource serveur des écritures non authentifiées.
func (s *Synchronizer) guard(op string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated {
		log.Printf("⚠️ cartsync: %s ignoré, utilisateur non authentifié", op)
		return false
	}
	return true
}

func (s *Synchronizer) reset(authenticated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = authenticated
	s.lines = nil
}

func (s *Synchronizer) setSyncing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncing = v
}
