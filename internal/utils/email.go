package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"modessa_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// SendOrderConfirmationEmail envoie le mail de confirmation de commande,
// avec la facture PDF en pièce jointe si elle a pu être générée.
func SendOrderConfirmationEmail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	if err := msg.From("noreply@modessa.fr"); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("facture_modessa.pdf", bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande.
// qrBase64 est le QR de virement SEPA (data URL), vide si non généré.
func GenerateOrderConfirmationHTML(order models.Order, qrBase64 string) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%s / %s</td>
				<td>%d</td>
				<td>%.2f€</td>
				<td>%.2f€</td>
			</tr>`, item.Name, item.Size, item.Color, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	qrHTML := ""
	if qrBase64 != "" {
		qrHTML = fmt.Sprintf(`
		<p>Pour régler par virement, scannez ce QR avec votre application bancaire :</p>
		<img src="%s" alt="QR virement SEPA" width="180" height="180"/>`, qrBase64)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; color: #222;">
	<h1>Merci pour votre commande !</h1>
	<p>Votre commande <strong>%s</strong> est confirmée.</p>
	<table border="0" cellpadding="6" cellspacing="0" width="100%%">
		<tr style="background:#f4f1ec;">
			<th align="left">Article</th>
			<th align="left">Taille / Couleur</th>
			<th align="left">Qté</th>
			<th align="left">Prix</th>
			<th align="left">Total</th>
		</tr>
		%s
	</table>
	<h2>Total : %.2f€</h2>
	<p>Livraison : %s, %s %s, %s</p>
	%s
	<p>— L'équipe Modessa</p>
</body>
</html>`,
		order.Reference, itemsHTML, order.AmountTotal,
		order.Shipping.Street, order.Shipping.PostalCode, order.Shipping.City, order.Shipping.Country,
		qrHTML)
}
