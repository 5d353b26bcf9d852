package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"soraifarm/internal/logging"
	"soraifarm/internal/models"
)

var recipeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"id":          {Type: genai.TypeString},
		"title":       {Type: genai.TypeString},
		"description": {Type: genai.TypeString},
		"category":    {Type: genai.TypeString, Enum: []string{"Food", "Drink", "Snack"}},
		"image":       {Type: genai.TypeString},
		"time":        {Type: genai.TypeString},
		"servings":    {Type: genai.TypeString},
		"difficulty":  {Type: genai.TypeString, Enum: []string{"Mudah", "Sedang", "Sulit"}},
		"ingredients": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":   {Type: genai.TypeString},
					"amount": {Type: genai.TypeString},
				},
			},
		},
		"steps": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
}

// Stock photos used when image generation fails.
const (
	stockFoodImage  = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?auto=format&fit=crop&w=800&q=80"
	stockDrinkImage = "https://images.unsplash.com/photo-1544145945-f90425340c7e?auto=format&fit=crop&w=800&q=80"
	stockSnackImage = "https://images.unsplash.com/photo-1578985545062-69928b1d9587?auto=format&fit=crop&w=800&q=80"
)

// GenerateRecipe creates a sorghum recipe, then renders a dish photo.
// The text step is mandatory; a failed image step falls back to a stock
// photo chosen by category.
func (s *Service) GenerateRecipe(ctx context.Context, dishName, ingredients, preference string) (*models.GeneratedRecipe, error) {
	if dishName == "" {
		dishName = "Terserah Chef (Kreasi Unik Bebas)"
	}
	if ingredients == "" {
		ingredients = "Gunakan bahan standar umum"
	}
	if preference == "" {
		preference = "Tidak ada, yang penting enak"
	}

	prompt := fmt.Sprintf(`Anda adalah Chef profesional spesialis pengolahan Sorgum.
User meminta resep dengan detail berikut:
1. Nama Masakan yang diinginkan: "%s"
2. Bahan tambahan yang tersedia: "%s"
3. Preferensi/Catatan: "%s"

INSTRUKSI UTAMA:
- Buatlah satu resep yang SESUAI dengan permintaan di atas.
- WAJIB: Resep ini HARUS menggunakan SORGUM (biji/tepung/nira) sebagai bahan utama atau pengganti.
- Jika user tidak menyebutkan nama masakan, ciptakan nama masakan yang menarik dan modern.

Output harus dalam Bahasa Indonesia.
Field 'image' biarkan string kosong.
Field 'category' pilih salah satu: 'Food', 'Drink', atau 'Snack'.
Field 'difficulty' pilih salah satu: 'Mudah', 'Sedang', 'Sulit'.
Field 'time' contoh: '30 mnt'.
Field 'servings' contoh: '2 porsi'.
Field 'id' gunakan string random 'ai-gen-123'.`,
		dishName, ingredients, preference)

	text, err := s.generateJSON(ctx, "recipe", prompt, recipeSchema)
	if err != nil {
		return nil, err
	}
	var recipe models.GeneratedRecipe
	if err := json.Unmarshal([]byte(text), &recipe); err != nil {
		return nil, fmt.Errorf("malformed recipe payload: %w", err)
	}

	recipe.Image = s.recipeImage(ctx, recipe)
	recipe.ID = fmt.Sprintf("ai-%d", time.Now().UnixMilli())
	return &recipe, nil
}

func (s *Service) recipeImage(ctx context.Context, recipe models.GeneratedRecipe) string {
	keyIngredients := make([]string, 0, 3)
	for i, ing := range recipe.Ingredients {
		if i == 3 {
			break
		}
		keyIngredients = append(keyIngredients, ing.Name)
	}
	prompt := fmt.Sprintf(`A professional food photography shot of %s. %s.
Key elements: %s.
Style: High resolution, 4k, appetizing, photorealistic, cinematic lighting, beautifully plated, shallow depth of field.`,
		recipe.Title, recipe.Description, strings.Join(keyIngredients, ", "))

	var mime string
	var data []byte
	err := s.withRetry("recipe-image", func() error {
		var callErr error
		mime, data, callErr = s.generateImage(ctx, imageModel, prompt)
		return callErr
	})
	if err != nil {
		logging.Warnf("recipe image: %v, using stock photo", err)
		switch recipe.Category {
		case "Drink":
			return stockDrinkImage
		case "Snack":
			return stockSnackImage
		default:
			return stockFoodImage
		}
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}
