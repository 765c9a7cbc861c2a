// Package cartsync fournit le client de synchronisation du panier Modessa.
// Il maintient une copie locale du panier de l'utilisateur connecté et la
// réconcilie avec le panier serveur (source de vérité) à chaque mutation.
// Utilisé par les bornes en magasin (cmd/kiosk) et l'outillage interne.
package cartsync

// CartLine représente une configuration achetable d'un produit dans le panier.
// Nom, image et prix sont des instantanés capturés à l'ajout (volontairement
// dénormalisés : un reçu ne doit pas changer quand le catalogue change).
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"productName"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
}

// LineKey identifie une ligne de façon unique : deux lignes du même panier ne
// peuvent jamais partager le triplet (produit, taille, couleur).
type LineKey struct {
	ProductID string
	Size      string
	Color     string
}

// Key retourne le triplet d'identité de la ligne.
func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// MergeLine ajoute une ligne à l'ensemble : si une ligne avec le même triplet
// existe déjà, sa quantité est incrémentée, sinon la ligne est ajoutée en fin.
// Retourne toujours une nouvelle slice, l'originale n'est pas modifiée.
func MergeLine(lines []CartLine, line CartLine) []CartLine {
	updated := make([]CartLine, len(lines))
	copy(updated, lines)

	for i := range updated {
		if updated[i].Key() == line.Key() {
			updated[i].Quantity += line.Quantity
			return updated
		}
	}
	return append(updated, line)
}

// SetQuantity remplace la quantité de la ligne correspondant au triplet.
// Si aucune ligne ne correspond, l'ensemble est retourné inchangé.
func SetQuantity(lines []CartLine, key LineKey, quantity int) []CartLine {
	updated := make([]CartLine, len(lines))
	copy(updated, lines)

	for i := range updated {
		if updated[i].Key() == key {
			updated[i].Quantity = quantity
			break
		}
	}
	return updated
}

// RemoveLine retire la ligne correspondant au triplet (au plus une).
func RemoveLine(lines []CartLine, key LineKey) []CartLine {
	updated := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Key() == key {
			continue
		}
		updated = append(updated, l)
	}
	return updated
}

// TotalItems retourne la somme des quantités (jamais stockée, toujours recalculée).
func TotalItems(lines []CartLine) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice retourne la somme des prix × quantités.
func TotalPrice(lines []CartLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}
