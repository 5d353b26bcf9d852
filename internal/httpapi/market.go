package httpapi

import (
	"net/http"
	"strconv"

	"soraifarm/internal/market"
)

// MarketDataHandler serves synthetic daily market records for a product
// and location. Responds with a bare array ordered oldest first.
func MarketDataHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	location := q.Get("location")
	if location == "" {
		location = "Bandung"
	}
	product := q.Get("product")
	if product == "" {
		product = "Sorghum"
	}
	days := 30
	if v := q.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			writeError(w, http.StatusBadRequest, "Parameter days tidak valid")
			return
		}
		days = n
	}

	writeJSON(w, http.StatusOK, market.DailyData(location, product, days))
}
