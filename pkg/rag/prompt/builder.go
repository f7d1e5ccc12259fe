// Package prompt assembles the prompts sent to the language-model backend:
// the tool-routing prompt built from recent history, and the grounded-answer
// prompt built from retrieved passages.
package prompt

import (
	"strings"
)

// HistoryTurn is one past exchange used as conversational context.
type HistoryTurn struct {
	UserMessage string
	BotResponse string
}

// MaxHistoryTurns bounds how much history goes into the tool prompt.
const MaxHistoryTurns = 3

// BuildToolPrompt embeds the recent history and the new message into the
// routing instruction that asks the model for either a tool-call JSON or a
// plain answer.
func BuildToolPrompt(history []HistoryTurn, message string) string {
	if len(history) > MaxHistoryTurns {
		history = history[len(history)-MaxHistoryTurns:]
	}

	var b strings.Builder
	b.WriteString("Aşağıda son konuşma geçmişi ve yeni kullanıcı mesajı var. ")
	b.WriteString("Eğer bir veya birden fazla tool çağrısı gerekiyorsa bana şu formatta JSON döndür:\n")
	b.WriteString(`Tek tool için: {"tool": "hava_durumu", "sehir": "İstanbul"}` + "\n")
	b.WriteString(`Çoklu tool için: [{"tool": "hava_durumu", "sehir": "İstanbul"}, {"tool": "kurum_bilgisi", "soru": "seyahat politikası"}]` + "\n")
	b.WriteString(`Kurum içi bilgi için: {"tool": "kurum_bilgisi", "soru": "seyahat politikası"}` + "\n")
	b.WriteString(`Destek talebi için: {"tool": "destek_talebi", "departman": "IT", "aciklama": "Bilgisayarım bozuldu", "aciliyet": "acil", "kategori": "donanım"}` + "\n")
	b.WriteString(`Yüklenen dokümanlar hakkında soru için: {"tool": "dokuman_sorgula", "sorgu": "raporun özeti"}` + "\n")
	b.WriteString(`Belirli bir doküman için: {"tool": "dokuman_sec", "rapor_id": 3, "sorgu": "raporun özeti"}` + "\n")
	b.WriteString("Eğer tool çağrısı yoksa sadece normal cevabını ver.\n\n")

	b.WriteString("Son konuşma geçmişi:\n")
	for _, turn := range history {
		b.WriteString("Kullanıcı: ")
		b.WriteString(turn.UserMessage)
		b.WriteString("\nBot: ")
		b.WriteString(turn.BotResponse)
		b.WriteString("\n")
	}

	b.WriteString("\nKullanıcı mesajı: ")
	b.WriteString(message)
	return b.String()
}

// BuildGroundedPrompt constrains the model to answer only from the retrieved
// passages and to say so explicitly when the answer is not in them.
func BuildGroundedPrompt(passages []string, query string) string {
	var b strings.Builder

	b.WriteString("<referans_metin>\n")
	b.WriteString(strings.Join(passages, "\n\n"))
	b.WriteString("\n</referans_metin>\n\n")

	b.WriteString("<gorev>\n")
	b.WriteString("Yukarıdaki referans metni kullanarak kullanıcının sorusunu yanıtla.\n")
	b.WriteString("Yalnızca referans metindeki bilgilere dayan; kendi bilgini ekleme.\n")
	b.WriteString("Cevap referans metinde yoksa bunu açıkça belirt.\n")
	b.WriteString("</gorev>\n\n")

	b.WriteString("<kullanici_sorusu>\n")
	b.WriteString(query)
	b.WriteString("\n</kullanici_sorusu>")
	return b.String()
}
