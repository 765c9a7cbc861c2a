// La borne (kiosk) est un client en ligne de commande de l'API Modessa :
// elle pilote le synchroniseur de panier comme le ferait le front web, via
// le cookie de session posé au login. Pratique pour tester la synchronisation
// multi-appareils : lancer deux bornes avec le même compte et observer les
// paniers converger.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"modessa_back_end/internal/cartsync"
)

func main() {
	base := flag.String("api", "http://localhost:8080", "adresse de l'API Modessa")
	email := flag.String("email", "", "email du compte")
	password := flag.String("password", "", "mot de passe")
	flag.Parse()

	client, err := cartsync.NewClient(*base)
	if err != nil {
		log.Fatal("❌ Création du client:", err)
	}

	ctx := context.Background()

	if *email != "" {
		if _, err := client.Login(ctx, *email, *password); err != nil {
			log.Fatal("❌ Connexion échouée:", err)
		}
		fmt.Println("✅ Connecté en tant que", *email)
	}

	sync := cartsync.New(client, client)
	defer sync.Close()

	if err := sync.Init(ctx); err != nil {
		log.Println("⚠️ Initialisation sans session:", err)
	}
	printCart(sync)

	fmt.Println("Commandes: add <productId> <taille> <couleur> <qté> | qty <productId> <taille> <couleur> <qté>")
	fmt.Println("           rm <productId> <taille> <couleur> | show | clear | logout | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "add":
			if len(fields) != 5 {
				fmt.Println("usage: add <productId> <taille> <couleur> <qté>")
				continue
			}
			qty, err := strconv.Atoi(fields[4])
			if err != nil {
				fmt.Println("quantité invalide:", fields[4])
				continue
			}
			err = sync.AddToCart(ctx, cartsync.CartLine{
				ProductID: fields[1], Size: fields[2], Color: fields[3], Quantity: qty,
			})
			report(err)
			printCart(sync)

		case "qty":
			if len(fields) != 5 {
				fmt.Println("usage: qty <productId> <taille> <couleur> <qté>")
				continue
			}
			qty, err := strconv.Atoi(fields[4])
			if err != nil {
				fmt.Println("quantité invalide:", fields[4])
				continue
			}
			report(sync.UpdateQuantity(ctx, fields[1], fields[2], fields[3], qty))
			printCart(sync)

		case "rm":
			if len(fields) != 4 {
				fmt.Println("usage: rm <productId> <taille> <couleur>")
				continue
			}
			report(sync.RemoveFromCart(ctx, fields[1], fields[2], fields[3]))
			printCart(sync)

		case "show":
			// Re-synchronise depuis le serveur avant d'afficher
			if err := sync.Init(ctx); err != nil {
				report(err)
			}
			printCart(sync)

		case "clear":
			report(sync.ClearCart(ctx))
			printCart(sync)

		case "logout":
			sync.Logout(ctx)
			fmt.Println("Déconnecté, panier local vidé")

		case "quit", "exit":
			return

		default:
			fmt.Println("commande inconnue:", fields[0])
		}
	}
}

func report(err error) {
	if err != nil {
		fmt.Println("⚠️", err)
	}
}

func printCart(s *cartsync.Synchronizer) {
	lines := s.Lines()
	if len(lines) == 0 {
		fmt.Println("🛒 Panier vide")
		return
	}
	for _, l := range lines {
		fmt.Printf("  %dx %s (%s/%s) à %.2f€\n", l.Quantity, l.Name, l.Size, l.Color, l.Price)
	}
	fmt.Printf("🛒 %d article(s), total %.2f€\n", s.TotalItems(), s.TotalPrice())
}
