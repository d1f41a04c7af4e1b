package main

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/Patasheva/congrats-analyzer/internal/ai"
	"github.com/Patasheva/congrats-analyzer/internal/config"
	"github.com/Patasheva/congrats-analyzer/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("🔍 Checking analyzer setup")
	fmt.Println("==========================")

	for _, bin := range []string{cfg.FFmpegPath, "ffprobe"} {
		if path, err := exec.LookPath(bin); err != nil {
			fmt.Printf("❌ %s not found\n", bin)
		} else {
			fmt.Printf("✅ %s: %s\n", bin, path)
		}
	}
	fmt.Println()

	aiConfig := cfg.AI()
	aiConfig.VerifyModels = true
	if aiConfig.OpenAIAPIKey == "" && aiConfig.OpenAIBaseURL == "" {
		fmt.Println("⚠️  WARNING: No model endpoint configured!")
		fmt.Println("   Set OPENAI_API_KEY, or OPENAI_BASE_URL for a self-hosted server")
	} else {
		loader := ai.NewModelLoader(aiConfig, zap.NewNop())
		report("Speech model", aiConfig.SpeechModel, loader.LoadSpeech(ctx) != nil)
		report("Vision model", aiConfig.VisionModel, loader.LoadVision(ctx) != nil)
	}
	if aiConfig.GoogleVisionKey != "" {
		fmt.Println("✅ Google Vision face check: Enabled")
	} else {
		fmt.Println("   Google Vision face check: Disabled")
	}
	fmt.Println()

	db, err := database.NewDB(ctx, cfg.Database(), zap.NewNop())
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	runs, err := database.NewRunRepository(db).ListRecent(ctx, 5)
	if err != nil {
		fmt.Println("❌ No runs table found (run the server or cmd/migrate first)")
		return
	}

	fmt.Println("📊 Recent runs:")
	fmt.Println("---------------")
	if len(runs) == 0 {
		fmt.Println("No runs yet. Upload a video to test!")
		return
	}
	for _, run := range runs {
		fmt.Printf("🎬 %s  %-9s %s", run.StartedAt.Format(time.DateTime), run.Status, run.Filename)
		if run.HadAudio {
			fmt.Printf("  🔊 %s", run.TranscriptLanguage)
		}
		if run.Error != "" {
			fmt.Printf("  (%s)", run.Error)
		}
		fmt.Println()
	}
}

func report(label, model string, ok bool) {
	if ok {
		fmt.Printf("✅ %s %s: reachable\n", label, model)
		return
	}
	fmt.Printf("❌ %s %s: unavailable\n", label, model)
}
