package ledger

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mmynk/beercounter/internal/models"
)

// FormatName upper-cases the first letter of every word and collapses repeated spaces.
// The rest of each word is kept as typed.
func FormatName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Quantity renders a beer count in Italian: "una birra" or "N birre".
func Quantity(n int) string {
	if n == 1 {
		return "una birra"
	}
	return fmt.Sprintf("%d birre", n)
}

// TransactionMessage builds the history line for a transaction.
func TransactionMessage(actorName string, t models.TransType, recipientNames []string) string {
	formatted := make([]string, len(recipientNames))
	for i, n := range recipientNames {
		formatted[i] = FormatName(n)
	}
	names := strings.Join(formatted, ", ")
	qty := Quantity(len(recipientNames))

	if t == models.TransPaid {
		return fmt.Sprintf("💸 CONTO SALDATO: %s ha pagato %s a %s.", FormatName(actorName), qty, names)
	}
	return fmt.Sprintf("🍺 NUOVO GIRO! %s deve %s a %s.", FormatName(actorName), qty, names)
}

// ShameMessage builds the history and notification line for a shame event.
func ShameMessage(ev ShameEvent, threshold int) string {
	return fmt.Sprintf("🔔 VERGOGNA! %s deve ancora %s a %s da più di %d giorni.",
		FormatName(ev.DebtorName), Quantity(ev.Count), FormatName(ev.CreditorName), threshold)
}

// JoinMessage builds the history line for an approved join.
func JoinMessage(name string) string {
	return fmt.Sprintf("👋 BENVENUTO! %s è entrato nel gruppo.", FormatName(name))
}
