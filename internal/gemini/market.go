package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"soraifarm/internal/logging"
	"soraifarm/internal/models"
)

var marketSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"currentPrice":          {Type: genai.TypeNumber},
		"priceChangePercentage": {Type: genai.TypeNumber},
		"lastUpdated":           {Type: genai.TypeString},
		"trend":                 {Type: genai.TypeString, Enum: []string{"Up", "Down", "Stable"}},
		"priceHistory": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":  {Type: genai.TypeString},
					"price": {Type: genai.TypeNumber},
				},
			},
		},
		"profitComparison": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":   {Type: genai.TypeString},
					"profit": {Type: genai.TypeNumber},
				},
			},
		},
		"marketSummary": {Type: genai.TypeString, Description: "Ringkasan tren pasar global & nasional."},
		"demandSupply":  {Type: genai.TypeString, Description: "Analisis supply & demand."},
		"priceAnalysis": {Type: genai.TypeString, Description: "Analisis faktor harga."},
		"opportunities": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "List peluang pasar baru.",
		},
		"prediction": {Type: genai.TypeString, Description: "Proyeksi 6-12 bulan ke depan."},
		"stakeholderActions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"role":   {Type: genai.TypeString, Enum: []string{"Petani", "UMKM", "Startup"}},
					"action": {Type: genai.TypeString},
				},
			},
		},
	},
}

// MarketInsight asks for a market intelligence report for the commodity.
// On failure the offline 2025 report is returned.
func (s *Service) MarketInsight(ctx context.Context, commodity, location string) models.MarketInsight {
	prompt := `Anda adalah Market Intelligence AI yang ahli dalam menganalisis tren pasar komoditas pertanian, khususnya SORGUM di Indonesia untuk TAHUN 2025.

KONTEKS WAKTU: Saat ini adalah tahun 2025.

KONTEKS PENTING HARGA:
- Harga pasar Sorgum di Indonesia tahun 2025 mengalami kenaikan karena tren pangan sehat dan substitusi gandum.
- Range harga: Rp 15.000 - Rp 25.000 per kg.

Tugas Utama Output:
1. MARKET METRICS:
   - Tentukan 'currentPrice' (rata-rata nasional 2025).
   - Tentukan 'priceChangePercentage' (tren positif).
   - Buat 'priceHistory' untuk 6 bulan terakhir (Januari 2025 s.d Juni 2025). Format nama bulan: "Jan 25", "Feb 25", dst.
   - Buat 'profitComparison' (Mentah vs Olahan).

2. INTELLIGENCE REPORT (Naratif Detail):
   - 'marketSummary': Ringkasan tren pasar global & nasional tahun 2025.
   - 'demandSupply': Analisis volume produksi vs kebutuhan industri 2025.
   - 'priceAnalysis': Analisis faktor harga 2025.
   - 'opportunities': List 3-4 peluang pasar baru 2025.
   - 'prediction': Insight prediktif untuk akhir tahun 2025.
   - 'stakeholderActions': Rekomendasi strategi spesifik.

Output dalam Bahasa Indonesia. Gunakan bahasa bisnis yang lugas.`

	text, err := s.generateJSON(ctx, "market", prompt, marketSchema)
	if err == nil {
		var insight models.MarketInsight
		if jsonErr := json.Unmarshal([]byte(text), &insight); jsonErr == nil {
			return insight
		}
		err = fmt.Errorf("malformed market payload")
	}
	logging.Warnf("market: %v, using offline fallback", err)
	return fallbackMarketInsight()
}

func fallbackMarketInsight() models.MarketInsight {
	return models.MarketInsight{
		CurrentPrice:          18500,
		PriceChangePercentage: 8.5,
		PriceHistory: []models.PricePoint{
			{Name: "Jan 25", Price: 16500},
			{Name: "Feb 25", Price: 16800},
			{Name: "Mar 25", Price: 17200},
			{Name: "Apr 25", Price: 17800},
			{Name: "Mei 25", Price: 18200},
			{Name: "Jun 25", Price: 18500},
		},
		ProfitComparison: []models.ProfitPoint{
			{Name: "Mentah", Profit: 6500},
			{Name: "Olahan", Profit: 22000},
		},
		LastUpdated:   "Juni 2025",
		Trend:         "Up",
		MarketSummary: "Di tahun 2025, pasar sorgum Indonesia tumbuh pesat sebesar 15% YoY. Pemerintah menetapkan sorgum sebagai pilar ketahanan pangan nasional baru pengganti gandum.",
		DemandSupply:  "Permintaan industri HOREKA (Hotel, Resto, Kafe) untuk menu gluten-free meningkat 40%. Supply dari NTT dan Jawa Timur mulai stabil berkat program ekstensifikasi lahan 2024.",
		PriceAnalysis: "Harga stabil tinggi (Rp 18.000+) didorong oleh kenaikan harga gandum impor dan tren gaya hidup sehat pasca-pandemi yang terus berlanjut.",
		Opportunities: []string{
			"Susu nabati berbasis sorgum (Sorgum Milk).",
			"Beras sorgum instan untuk ransum darurat/bencana.",
			"Ekspor biji sorgum premium ke pasar Australia dan Jepang.",
		},
		Prediction: "Q3-Q4 2025 diprediksi harga akan tembus Rp 20.000/kg seiring masuknya investasi pabrik pengolahan gula batang sorgum (bioetanol).",
		StakeholderActions: []models.StakeholderRecommendation{
			{Role: "Petani", Action: "Gunakan varietas Samurai-2 (rilis 2024) yang tahan hama karat daun. Lakukan kontrak farming dengan off-taker industri."},
			{Role: "UMKM", Action: "Fokus branding 'Superfood Lokal 2025'. Kemas produk dalam pouch ziplock modern."},
			{Role: "Startup", Action: "Kembangkan IoT untuk monitoring gudang penyimpanan sorgum guna menekan losses pascapanen di bawah 5%."},
		},
	}
}
