package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"google.golang.org/genai"
)

// fakeService returns a Service whose text generator is driven by fn and
// whose sleeps are recorded instead of waited.
func fakeService(fn func(call int) (string, error)) (*Service, *[]time.Duration) {
	var waits []time.Duration
	calls := 0
	svc := &Service{
		generateText: func(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error) {
			calls++
			return fn(calls)
		},
		generateImage: func(ctx context.Context, model, prompt string) (string, []byte, error) {
			return "", nil, errors.New("no image backend")
		},
		sleep: func(d time.Duration) { waits = append(waits, d) },
	}
	return svc, &waits
}

func TestRetryRecoversFromTransientErrors(t *testing.T) {
	payload := `{"location":"Bandung","currentTemp":31,"condition":"Cerah","humidity":60,` +
		`"windSpeed":8,"isExtreme":false,"extremeMessage":"Aman.","recommendation":"Lanjut panen.",` +
		`"forecast":[{"name":"Sen","temp":31,"rain":5,"humidity":60}]}`
	svc, waits := fakeService(func(call int) (string, error) {
		if call <= 2 {
			return "", fmt.Errorf("googleapi: Error 429: RESOURCE_EXHAUSTED")
		}
		return payload, nil
	})

	data := svc.ClimateAnalysis(context.Background(), "Bandung", PeriodWeekly)
	assert.Equal(t, 31.0, data.CurrentTemp)
	assert.Equal(t, "Cerah", data.Condition)

	require.Len(t, *waits, 2)
	assert.Equal(t, 2*time.Second, (*waits)[0])
	assert.Equal(t, 4*time.Second, (*waits)[1])
}

func TestRetryGivesUpAfterTwoRetriesAndFallsBack(t *testing.T) {
	svc, waits := fakeService(func(call int) (string, error) {
		return "", fmt.Errorf("503 Service Unavailable")
	})

	data := svc.ClimateAnalysis(context.Background(), "Garut", PeriodWeekly)
	assert.Equal(t, "Garut", data.Location)
	assert.Equal(t, "Cerah Berawan", data.Condition)
	assert.Len(t, data.Forecast, 7)
	assert.Len(t, *waits, 2)
}

func TestNonTransientErrorSkipsRetry(t *testing.T) {
	svc, waits := fakeService(func(call int) (string, error) {
		return "", errors.New("invalid api key")
	})

	data := svc.MarketInsight(context.Background(), "Sorghum", "Bandung")
	assert.Equal(t, 18500.0, data.CurrentPrice, "should use the offline report")
	assert.Empty(t, *waits, "non-transient errors must not be retried")
}

func TestPlantingFallback(t *testing.T) {
	svc, _ := fakeService(func(call int) (string, error) {
		return "{not json", nil
	})

	rec := svc.PlantingRecommendation(context.Background(), "Bandung", "Lempung", "Numbu")
	assert.Equal(t, 85.0, rec.Suitability)
	assert.Equal(t, "Low", rec.Risk)
	require.Len(t, rec.Steps, 3)
}

func TestGenerateRecipeReturnsErrorWhenTextFails(t *testing.T) {
	svc, _ := fakeService(func(call int) (string, error) {
		return "", fmt.Errorf("quota exceeded")
	})

	_, err := svc.GenerateRecipe(context.Background(), "Bubur Sorgum", "", "")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestGenerateRecipeStockImageFallback(t *testing.T) {
	payload := `{"id":"ai-gen-123","title":"Es Sorgum Kelapa","description":"Minuman segar",` +
		`"category":"Drink","image":"","time":"15 mnt","servings":"2 porsi","difficulty":"Mudah",` +
		`"ingredients":[{"name":"Biji sorgum","amount":"100 g"}],"steps":["Rebus","Sajikan"]}`
	svc, _ := fakeService(func(call int) (string, error) {
		return payload, nil
	})

	recipe, err := svc.GenerateRecipe(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.Equal(t, stockDrinkImage, recipe.Image)
	assert.Contains(t, recipe.ID, "ai-")
	assert.NotEqual(t, "ai-gen-123", recipe.ID)
}

func TestEducationContentParsed(t *testing.T) {
	payload := `{"agroAnalysis":"Iklim kering cocok.","plantingTime":"Oktober",` +
		`"cultivationSteps":[{"title":"Tanam","description":"Jarak 70x20cm"}],` +
		`"fertilization":"NPK","pestControl":"Jaring burung","weatherRiskManagement":"Drainase",` +
		`"harvestGuide":"Biji keras","valueAddedProducts":["Tepung"],"localTips":"Kelompok tani",` +
		`"varieties":[{"name":"Bioguma","desc":"Hasil tinggi"}],` +
		`"nutritionFacts":[{"title":"Serat","value":"Tinggi"}],` +
		`"faqs":[{"q":"Butuh air banyak?","a":"Tidak"}]}`
	svc, _ := fakeService(func(call int) (string, error) {
		return payload, nil
	})

	content := svc.EducationContent(context.Background(), "Bandung")
	assert.Equal(t, "Iklim kering cocok.", content.AgroAnalysis)
	require.Len(t, content.Varieties, 1)
	assert.Equal(t, "Bioguma", content.Varieties[0].Name)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(errors.New("429 too many requests")))
	assert.True(t, isTransient(errors.New("quota exceeded for project")))
	assert.True(t, isTransient(errors.New("503 UNAVAILABLE")))
	assert.False(t, isTransient(errors.New("invalid argument")))
	assert.False(t, isTransient(nil))
}
