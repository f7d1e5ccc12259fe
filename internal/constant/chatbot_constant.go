package constant

// Departmanlar destek talebi açılabilecek departmanların listesidir.
var Departmanlar = []string{"IT", "İnsan Kaynakları", "Muhasebe", "Teknik Servis"}

// KurumBilgiTabani sık sorulan kurum içi soruların sabit yanıtlarıdır.
// Anahtarlar normalize edilmiş (küçük harf, ASCII) biçimde aranır.
var KurumBilgiTabani = map[string]string{
	"mesai":        "Mesai saatlerimiz hafta içi 09:00 - 18:00 arasındadır. Öğle arası 12:30 - 13:30'dur.",
	"mesai ucreti": "Fazla mesai ücreti normal saat ücretinin %50 fazlası olarak hesaplanır ve bir sonraki maaş dönemine yansıtılır.",
	"izin":         "Yıllık izin talepleri İnsan Kaynakları portalı üzerinden yapılır. Onay süreci yöneticinizle birlikte en geç 3 iş günü içinde tamamlanır.",
	"yemekhane":    "Yemekhane hafta içi 12:00 - 14:00 saatleri arasında hizmet vermektedir. Haftalık menü intranet sayfasında yayınlanır.",
	"servis":       "Personel servisleri sabah 08:15'te ana duraklardan kalkar, akşam 18:15'te kampüsten ayrılır. Güzergahlar intranette listelenmiştir.",
	"seyahat":      "İş seyahatleri yöneticinizin onayıyla planlanır; ulaşım ve konaklama giderleri seyahat politikası limitleri dahilinde kurum tarafından karşılanır.",
}

// KurumBilgiAnahtarlari arama sırasını belirler: uzun anahtarlar önce
// denenir ki "mesai ucreti" sorusu "mesai" yanıtına düşmesin.
var KurumBilgiAnahtarlari = []string{
	"mesai ucreti",
	"yemekhane",
	"seyahat",
	"mesai",
	"servis",
	"izin",
}

// Sohbet döngüsünde kullanılan Türkçe yanıt kalıpları.
const (
	ReplyAskDepartment      = "Hangi departman için destek talebi oluşturmak istersiniz? Seçenekler: %s"
	ReplyInvalidDepartment  = "Geçersiz departman. Lütfen şu seçeneklerden birini belirtin: %s"
	ReplyAskDescription     = "Lütfen destek talebinizin açıklamasını yazın."
	ReplyTicketCreated      = "Destek talebiniz oluşturuldu. Talep numaranız: %s. %s departmanımız en kısa sürede sizinle iletişime geçecektir."
	ReplyLLMUnavailable     = "Üzgünüm, şu anda isteğinizi işleyemiyorum. Lütfen daha sonra tekrar deneyin."
	ReplyUnrecognizedTool   = "Tool çağrısı tanınmadı."
	ReplyKnowledgeNotFound  = "Bu konuda bilgi bulunamadı. Sorunuzu farklı bir şekilde ifade etmeyi deneyebilirsiniz."
	ReplyAskCity            = "Hangi şehir için hava durumu öğrenmek istersiniz?"
	ReplyTranslateFailed    = "Çeviri hizmetine şu anda ulaşılamıyor. Lütfen daha sonra tekrar deneyin."
	ReplyWeatherUnavailable = "Hava durumu bilgisine şu anda ulaşılamıyor."
	ReplyCityNotFound       = "%s için hava durumu bilgisi bulunamadı."
	ReplyWeatherReport      = "%s için hava durumu: %s, sıcaklık %.1f°C."
	ReplyNoDocumentMatch    = "Yüklü dokümanlarda sorgunuzla eşleşen bir içerik bulunamadı."
	ReplyDocumentNotFound   = "Belirtilen doküman bulunamadı."
	ReplySelectDocument     = "Sorgunuzla eşleşen birden fazla doküman bulundu. Lütfen birini seçin:\n%s"
)

// Sohbet geçmişi kayıtlarında kullanılan tur tipleri.
const (
	TurnTypeChat     = "chat"
	TurnTypeTool     = "tool"
	TurnTypeTicket   = "ticket"
	TurnTypeDocument = "document"
	TurnTypeFallback = "fallback"
)

// Türkçe gün ve ay adları, tarih yanıtlarını yerelleştirmek için.
var GunAdlari = map[string]string{
	"Monday":    "Pazartesi",
	"Tuesday":   "Salı",
	"Wednesday": "Çarşamba",
	"Thursday":  "Perşembe",
	"Friday":    "Cuma",
	"Saturday":  "Cumartesi",
	"Sunday":    "Pazar",
}

var AyAdlari = map[string]string{
	"January":   "Ocak",
	"February":  "Şubat",
	"March":     "Mart",
	"April":     "Nisan",
	"May":       "Mayıs",
	"June":      "Haziran",
	"July":      "Temmuz",
	"August":    "Ağustos",
	"September": "Eylül",
	"October":   "Ekim",
	"November":  "Kasım",
	"December":  "Aralık",
}
