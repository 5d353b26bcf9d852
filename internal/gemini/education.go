package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"soraifarm/internal/logging"
	"soraifarm/internal/models"
)

var educationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"agroAnalysis": {Type: genai.TypeString},
		"plantingTime": {Type: genai.TypeString},
		"cultivationSteps": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":       {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
				},
			},
		},
		"fertilization":         {Type: genai.TypeString},
		"pestControl":           {Type: genai.TypeString},
		"weatherRiskManagement": {Type: genai.TypeString},
		"harvestGuide":          {Type: genai.TypeString},
		"valueAddedProducts": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"localTips": {Type: genai.TypeString},
		"varieties": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {Type: genai.TypeString},
					"desc": {Type: genai.TypeString},
				},
			},
		},
		"nutritionFacts": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title": {Type: genai.TypeString},
					"value": {Type: genai.TypeString},
				},
			},
		},
		"faqs": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"q": {Type: genai.TypeString},
					"a": {Type: genai.TypeString},
				},
			},
		},
	},
}

// EducationContent asks for a compact cultivation guide plus library
// entries for the location. On failure the offline guide is returned.
func (s *Service) EducationContent(ctx context.Context, location string) models.EducationContent {
	prompt := fmt.Sprintf(`Anda adalah Agriculture Expert AI untuk wilayah Indonesia. Tugas Anda memberikan panduan budidaya SORGUM untuk lokasi: %s.

INSTRUKSI KHUSUS:
1. JAWABLAH DENGAN RINGKAS DAN PADAT.
2. Fokus pada poin-poin penting saja.

Struktur Output JSON Wajib (Isi dengan singkat):
1. 'agroAnalysis': Analisis Agroklimat singkat (max 30 kata).
2. 'plantingTime': Rekomendasi Waktu Tanam (max 15 kata).
3. 'cultivationSteps': Array 4-5 langkah budidaya (title, description max 20 kata).
4. 'fertilization': Rekomendasi Pemupukan (max 30 kata).
5. 'pestControl': Pengendalian Hama Utama (max 30 kata).
6. 'weatherRiskManagement': Mitigasi Risiko Cuaca (max 30 kata).
7. 'harvestGuide': Panduan Panen (max 30 kata).
8. 'valueAddedProducts': Array string (3 item) ide olahan.
9. 'localTips': Satu tips lokal praktis (max 20 kata).

TAMBAHAN KONTEN EDUKASI (Pustaka):
10. 'varieties': Sebutkan 3 varietas unggul sorgum di Indonesia (contoh: Bioguma, Numbu, Kawali) beserta deskripsi super singkat keunggulannya (max 15 kata per item).
11. 'nutritionFacts': Sebutkan 3 kandungan gizi/manfaat utama sorgum (title: nama zat/manfaat, value: deskripsi singkat).
12. 'faqs': 3 Pertanyaan umum (FAQ) petani pemula tentang sorgum beserta jawabannya yang singkat.`,
		location)

	text, err := s.generateJSON(ctx, "education", prompt, educationSchema)
	if err == nil {
		var content models.EducationContent
		if jsonErr := json.Unmarshal([]byte(text), &content); jsonErr == nil {
			return content
		}
		err = fmt.Errorf("malformed education payload")
	}
	logging.Warnf("education: %v, using offline fallback", err)
	return fallbackEducation(location)
}

func fallbackEducation(location string) models.EducationContent {
	return models.EducationContent{
		AgroAnalysis: fmt.Sprintf("Analisis untuk %s tidak tersedia. Sorgum cocok di lahan kering.", location),
		PlantingTime: "Awal musim hujan.",
		CultivationSteps: []models.RecommendationStep{
			{Title: "Persiapan Lahan", Description: "Bajak tanah 20cm, bersihkan gulma."},
			{Title: "Penanaman", Description: "Tanam 3-5cm, jarak 70x20cm."},
			{Title: "Pemeliharaan", Description: "Penyiangan usia 3-4 minggu."},
		},
		Fertilization:         "Urea 100kg/ha & NPK 200kg/ha bertahap.",
		PestControl:           "Waspada burung pipit, pasang jaring.",
		WeatherRiskManagement: "Buat drainase hindari genangan.",
		HarvestGuide:          "Panen saat biji keras & daun kering.",
		ValueAddedProducts:    []string{"Tepung Sorgum", "Beras Sorgum", "Pakan Silase"},
		LocalTips:             "Gabung kelompok tani untuk pasar.",
		Varieties: []models.Variety{
			{Name: "Bioguma", Desc: "Potensi hasil tinggi hingga 9 ton/ha, tahan rebah."},
			{Name: "Numbu", Desc: "Tahan kekeringan dan lahan masam, cocok di lahan kering."},
			{Name: "Kawali", Desc: "Kandungan gula batang tinggi, cocok untuk nira/bioetanol."},
		},
		NutritionFacts: []models.NutritionFact{
			{Title: "Bebas Gluten", Value: "Aman untuk penderita celiac & intoleransi gluten."},
			{Title: "Kaya Serat", Value: "Baik untuk pencernaan dan diet."},
			{Title: "Antioksidan Tinggi", Value: "Mengandung tanin & flavonoid penangkal radikal bebas."},
		},
		FAQs: []models.FAQ{
			{Q: "Apakah sorgum butuh banyak air?", A: "Tidak, sorgum sangat hemat air dibanding padi/jagung."},
			{Q: "Berapa lama umur panen sorgum?", A: "Rata-rata 3-4 bulan (90-110 hari) tergantung varietas."},
			{Q: "Apa itu ratun?", A: "Sorgum bisa dipanen 2-3 kali sekali tanam dengan memangkas batang (ratun)."},
		},
	}
}
