// Command soraifarm is the terminal client: a screen-per-view shell over
// the REST backend, the Gemini features and the Open-Meteo weather feed.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"soraifarm/internal/apiclient"
	"soraifarm/internal/config"
	"soraifarm/internal/gemini"
	"soraifarm/internal/logging"
	"soraifarm/internal/navigation"
	"soraifarm/internal/session"
	"soraifarm/internal/views"
	"soraifarm/internal/weather"
)

type app struct {
	deps views.Deps

	auth      *views.AuthView
	home      *views.HomeView
	climate   *views.ClimateView
	planting  *views.PlantingView
	harvest   *views.HarvestView
	hpp       *views.HppView
	education *views.EducationView
	recipes   *views.RecipesView
	market    *views.MarketView
	profile   *views.ProfileView
	settings  *views.SettingsView

	current navigation.Screen
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Errorf("config: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	ai := gemini.NewOffline()
	if cfg.GeminiAPIKey != "" {
		ai, err = gemini.NewService(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logging.Warnf("gemini unavailable, running with fallbacks: %v", err)
			ai = gemini.NewOffline()
		}
	} else {
		logging.Warnf("GEMINI_API_KEY not set, AI features serve fallback content")
	}

	deps := views.Deps{
		API:      apiclient.New(cfg.BaseURL),
		AI:       ai,
		Weather:  weather.NewService(),
		Session:  session.Open(cfg.SessionPath),
		Nav:      navigation.New(),
		Notifier: views.LogNotifier{},
	}

	a := &app{
		deps:      deps,
		auth:      views.NewAuthView(deps),
		home:      views.NewHomeView(deps),
		climate:   views.NewClimateView(deps),
		planting:  views.NewPlantingView(deps),
		harvest:   views.NewHarvestView(deps),
		hpp:       views.NewHppView(deps),
		education: views.NewEducationView(deps),
		recipes:   views.NewRecipesView(deps),
		market:    views.NewMarketView(deps),
		profile:   views.NewProfileView(deps),
		settings:  views.NewSettingsView(deps),
		current:   navigation.ScreenSplash,
	}

	deps.Nav.SetNavigateHook(func(s navigation.Screen) {
		a.switchTo(ctx, s)
	})
	deps.Session.Bootstrap(deps.Nav)

	a.loop(ctx)
}

// syncScreen follows navigations that bypass the hook (Reset, GoBack).
func (a *app) syncScreen(ctx context.Context) {
	if s := a.deps.Nav.Current(); s != a.current {
		a.switchTo(ctx, s)
	}
}

// switchTo unmounts the previous screen's controller and mounts the next.
func (a *app) switchTo(ctx context.Context, next navigation.Screen) {
	if next == a.current {
		return
	}
	a.unmount(a.current)
	a.current = next
	a.mount(ctx, next)
	a.render()
}

func (a *app) mount(ctx context.Context, s navigation.Screen) {
	switch s {
	case navigation.ScreenAuth:
		a.auth.Mount()
	case navigation.ScreenHome:
		a.home.Mount(ctx)
	case navigation.ScreenClimate:
		a.climate.Mount(ctx)
	case navigation.ScreenPlanting:
		a.planting.Mount(ctx)
	case navigation.ScreenHarvest:
		a.harvest.Mount()
	case navigation.ScreenHpp:
		a.hpp.Mount()
	case navigation.ScreenEducation:
		a.education.Mount(ctx)
	case navigation.ScreenRecipes:
		a.recipes.Mount(ctx)
	case navigation.ScreenMarket:
		a.market.Mount(ctx)
	case navigation.ScreenProfile:
		a.profile.Mount()
	case navigation.ScreenSettings:
		a.settings.Mount()
	}
}

func (a *app) unmount(s navigation.Screen) {
	switch s {
	case navigation.ScreenAuth:
		a.auth.Unmount()
	case navigation.ScreenHome:
		a.home.Unmount()
	case navigation.ScreenClimate:
		a.climate.Unmount()
	case navigation.ScreenPlanting:
		a.planting.Unmount()
	case navigation.ScreenHarvest:
		a.harvest.Unmount()
	case navigation.ScreenHpp:
		a.hpp.Unmount()
	case navigation.ScreenEducation:
		a.education.Unmount()
	case navigation.ScreenRecipes:
		a.recipes.Unmount()
	case navigation.ScreenMarket:
		a.market.Unmount()
	case navigation.ScreenProfile:
		a.profile.Unmount()
	case navigation.ScreenSettings:
		a.settings.Unmount()
	}
}

func (a *app) render() {
	chrome := navigation.ChromeFor(a.current)
	fmt.Printf("\n== %s", a.current)
	if chrome.Title != "" {
		fmt.Printf(" - %s", chrome.Title)
	}
	fmt.Println(" ==")
	if chrome.ShowBottomNav {
		fmt.Println("[tabs: home planting education recipes market]")
	}
}

var screenCommands = map[string]navigation.Screen{
	"home":      navigation.ScreenHome,
	"climate":   navigation.ScreenClimate,
	"planting":  navigation.ScreenPlanting,
	"harvest":   navigation.ScreenHarvest,
	"hpp":       navigation.ScreenHpp,
	"education": navigation.ScreenEducation,
	"recipes":   navigation.ScreenRecipes,
	"market":    navigation.ScreenMarket,
	"profile":   navigation.ScreenProfile,
	"settings":  navigation.ScreenSettings,
}

func (a *app) loop(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("SorAiFarm. Ketik 'help' untuk daftar perintah.")
	a.syncScreen(ctx)
	a.render()

	for {
		a.syncScreen(ctx)
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		if screen, ok := screenCommands[cmd]; ok {
			if !a.deps.Session.LoggedIn() {
				fmt.Println("Silakan login terlebih dahulu.")
				continue
			}
			a.deps.Nav.Navigate(screen)
			continue
		}

		switch cmd {
		case "help":
			fmt.Println("login <email> <password> | register <email> <password> <nama...>")
			fmt.Println("home climate planting harvest hpp education recipes market profile settings")
			fmt.Println("back | show | open <id> | close | logout | quit")
		case "login":
			if len(args) != 2 {
				fmt.Println("pakai: login <email> <password>")
				continue
			}
			if err := a.auth.Login(args[0], args[1]); err != nil {
				fmt.Println(err)
			}
		case "register":
			if len(args) < 3 {
				fmt.Println("pakai: register <email> <password> <nama lengkap>")
				continue
			}
			if err := a.auth.Register(args[0], args[1], strings.Join(args[2:], " ")); err != nil {
				fmt.Println(err)
			}
		case "back":
			a.deps.Nav.GoBack()
		case "show":
			a.show()
		case "open":
			if a.current != navigation.ScreenRecipes || len(args) != 1 {
				fmt.Println("pakai: open <id resep> (di layar recipes)")
				continue
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Println("id tidak valid")
				continue
			}
			a.recipes.Open(ctx, id)
		case "close":
			a.recipes.CloseDetail()
		case "logout":
			a.settings.Logout()
		case "quit", "exit":
			return
		default:
			fmt.Printf("perintah tidak dikenal: %s\n", cmd)
		}
	}
}

// show prints the current screen's data snapshot.
func (a *app) show() {
	switch a.current {
	case navigation.ScreenHome:
		climate, chartPoints, popular := a.home.Snapshot()
		fmt.Printf("%s: %.0f°C %s, angin %.0f km/j\n",
			climate.Location, climate.CurrentTemp, climate.Condition, climate.WindSpeed)
		fmt.Printf("grafik pasar: %d titik\n", len(chartPoints))
		for _, r := range popular {
			fmt.Printf("  resep populer #%d %s (%d views)\n", r.ID, r.Title, r.Views)
		}
	case navigation.ScreenClimate:
		data, loading := a.climate.Snapshot()
		if loading {
			fmt.Println("memuat...")
			return
		}
		fmt.Printf("%.0f°C %s, kelembapan %.0f%%\n", data.CurrentTemp, data.Condition, data.Humidity)
		for _, d := range data.Forecast {
			fmt.Printf("  %s %.0f° hujan %.0f%%\n", d.Name, d.Temp, d.Rain)
		}
	case navigation.ScreenPlanting:
		lands, assessment := a.planting.Snapshot()
		for _, l := range lands {
			fmt.Printf("  lahan #%d %s %.0f m2 [%s]\n", l.ID, l.Name, l.Area, l.Status)
		}
		if assessment != nil {
			fmt.Printf("kesesuaian %.0f%%, risiko %s\n", assessment.Suitability, assessment.Risk)
		}
	case navigation.ScreenHarvest:
		result, errMsg := a.harvest.Snapshot()
		if errMsg != "" {
			fmt.Println(errMsg)
		} else if result != nil {
			fmt.Printf("%d tanaman, %.0f kg, estimasi Rp%.0f\n",
				result.NumberOfPlants, result.TotalYieldKg, result.GrossRevenue)
		}
	case navigation.ScreenHpp:
		result, errMsg := a.hpp.Snapshot()
		if errMsg != "" {
			fmt.Println(errMsg)
		} else if result != nil {
			fmt.Printf("HPP Rp%.0f/unit, harga jual Rp%.0f\n", result.CostPerUnit, result.SellingPrice)
		}
	case navigation.ScreenEducation:
		for _, m := range a.education.Visible() {
			fmt.Printf("  modul #%d [%s] %s\n", m.ID, m.Category, m.Title)
		}
	case navigation.ScreenRecipes:
		for _, r := range a.recipes.Visible() {
			fmt.Printf("  resep #%d [%s] %s (%d views)\n", r.ID, r.Category, r.Title, r.Views)
		}
	case navigation.ScreenMarket:
		points, insight := a.market.Snapshot()
		fmt.Printf("grafik: %d titik\n", len(points))
		if insight != nil {
			fmt.Printf("harga saat ini Rp%.0f (%+.1f%%)\n", insight.CurrentPrice, insight.PriceChangePercentage)
		}
	case navigation.ScreenProfile:
		if p := a.profile.Snapshot(); p != nil {
			fmt.Printf("%s - %s, %s ha lahan, %d resep\n",
				p.FullName, p.Location, p.TotalLandAreaHa, p.RecipeCount)
		}
	default:
		fmt.Println("tidak ada data di layar ini")
	}
}
