package models

// CartItem est une ligne du panier : un produit dans une taille et une
// couleur données. Nom, image et prix sont figés au moment de l'ajout.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"productName"`
	ImageURL  string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
}

// CartKey : identité d'une ligne. Deux lignes d'un même panier ne partagent
// jamais le même triplet (produit, taille, couleur).
type CartKey struct {
	ProductID string
	Size      string
	Color     string
}

func (i CartItem) Key() CartKey {
	return CartKey{ProductID: i.ProductID, Size: i.Size, Color: i.Color}
}

// CartTotals recalcule le nombre d'articles et le montant du panier.
func CartTotals(items []CartItem) (count int, total float64) {
	for _, it := range items {
		count += it.Quantity
		total += it.Price * float64(it.Quantity)
	}
	return count, total
}

// MergeCartItems normalise un panier reçu du client : les doublons de triplet
// sont fusionnés (quantités additionnées), l'ordre d'insertion est préservé.
func MergeCartItems(items []CartItem) []CartItem {
	merged := make([]CartItem, 0, len(items))
	index := make(map[CartKey]int, len(items))

	for _, it := range items {
		if pos, ok := index[it.Key()]; ok {
			merged[pos].Quantity += it.Quantity
			continue
		}
		index[it.Key()] = len(merged)
		merged = append(merged, it)
	}
	return merged
}
