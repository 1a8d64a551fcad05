package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go-openclaw-apply/internal/ai"
	"go-openclaw-apply/internal/browser"
	"go-openclaw-apply/internal/config"
	"go-openclaw-apply/internal/discovery"
	"go-openclaw-apply/internal/evaluate"
	"go-openclaw-apply/internal/history"
	"go-openclaw-apply/internal/pipeline"
	"go-openclaw-apply/internal/posting"
	"go-openclaw-apply/internal/profile"
	"go-openclaw-apply/internal/reporter"
	"go-openclaw-apply/internal/resolve"
	"go-openclaw-apply/internal/scanner"
	"go-openclaw-apply/internal/submit"
)

func main() {
	maxFlag := flag.Int("max", 0, "Maximum applications per run (overrides config)")
	testFlag := flag.Bool("test", false, "Test mode: scan the configured form only, no submission or logging")
	configFlag := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	//load config
	cfg := config.Load(*configFlag)
	if *maxFlag > 0 {
		cfg.MaxApplications = *maxFlag
	}
	log.Printf("🔧 Config loaded. Max applications: %d", cfg.MaxApplications)

	//init playwright driver
	driver, err := browser.NewPlaywrightDriver(browser.Options{
		Headless:          cfg.Headless,
		NavTimeout:        time.Duration(cfg.NavTimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		log.Fatalf("❌ Failed to init browser: %v", err)
	}
	defer driver.Close()

	ctx := context.Background()

	if *testFlag {
		runScanTest(ctx, cfg, driver)
		return
	}

	//load profile
	prof, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		log.Fatalf("❌ Failed to load profile: %v", err)
	}
	log.Printf("👤 Profile loaded for %s", prof.Personal.FullName)

	//open history store
	hist, err := history.Open(cfg.HistoryPath)
	if err != nil {
		log.Fatalf("❌ Failed to open history store: %v", err)
	}
	defer hist.Close()

	//init generation client
	if cfg.GrokAPIKey == "" {
		log.Fatal("GROK_API_KEY is required")
	}
	gen := ai.NewGrokClient(cfg.GrokAPIKey)

	//optional telegram reporting
	var notifier pipeline.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := reporter.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram reporting disabled: %v", err)
		} else {
			notifier = tg
			log.Println("🤖 Telegram reporting enabled.")
		}
	}

	//wire the pipeline
	runner := pipeline.NewRunner(
		discovery.NewJobrightSource(driver, cfg.DiscoverURL),
		hist,
		evaluate.NewEvaluator(prof, gen, cfg.MinMatchScore),
		posting.NewExtractor(driver),
		scanner.NewScanner(driver),
		resolve.NewResolver(prof, gen, resolve.Options{
			ExcerptMaxChars: cfg.ExcerptMaxChars,
			AnswerMaxWords:  cfg.AnswerMaxWords,
			Tone:            cfg.AnswerTone,
		}),
		submit.NewSubmitter(driver),
		notifier,
		pipeline.Options{
			MaxApplications: cfg.MaxApplications,
			MaxPages:        cfg.MaxPages,
			Cooldown:        time.Duration(cfg.CooldownSeconds) * time.Second,
			NavTimeout:      2 * time.Duration(cfg.NavTimeoutSeconds) * time.Second,
			GenerateTimeout: time.Duration(cfg.GenerateTimeoutSeconds) * time.Second,
		},
	)

	log.Println("🚀 Starting application batch...")
	applied, err := runner.RunBatch(ctx)
	if err != nil {
		log.Fatalf("❌ Batch aborted: %v (submitted %d before failure)", err, applied)
	}

	fmt.Printf("Completed: %d applications submitted\n", applied)
}

// runScanTest exercises the form scanner only and prints the structure.
// No submission, no history write.
func runScanTest(ctx context.Context, cfg *config.Config, driver browser.Driver) {
	if cfg.TestFormURL == "" {
		log.Fatal("test_form_url must be set in config for --test mode")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Duration(cfg.NavTimeoutSeconds)*time.Second)
	defer cancel()

	form, err := scanner.NewScanner(driver).Scan(ctx, cfg.TestFormURL)
	if err != nil {
		log.Fatalf("❌ Scan failed: %v", err)
	}

	data, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		log.Fatalf("❌ Failed to marshal scan result: %v", err)
	}
	os.Stdout.Write(append(data, '\n'))
}
