//go:build ignore

// Live smoke test against the real API. Needs API_KEY.
//
//	go run test_final.go [image]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/diogo/aura/internal/api"
	"github.com/diogo/aura/internal/config"
	"github.com/diogo/aura/internal/logging"
	"github.com/diogo/aura/internal/view"
)

func main() {
	fmt.Println("=== Live Smoke Test ===")

	config.LoadDotEnv()
	key, err := config.LoadCredential()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, _ := config.LoadConfig()
	ctx := context.Background()
	client, err := api.New(ctx, cfg, key, logging.New(os.Stderr, true))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer client.Close()

	reg := view.NewRegistry(client)
	defer reg.Close()

	for _, c := range []*view.Controller{reg.Chat, reg.Deep, reg.Web} {
		start := time.Now()
		msg, _ := c.Send(ctx, "In one sentence, what is the Go programming language?")
		fmt.Printf("\n[%s] %s (%s)\n%s\n", time.Now().Format("15:04:05"), c.Mode().Title(), time.Since(start).Round(time.Millisecond), msg.Text)
		for i, s := range msg.Sources {
			fmt.Printf("  %d. %s %s\n", i+1, s.Title, s.URI)
		}
	}

	if len(os.Args) > 1 {
		if err := reg.Image.SelectFile(os.Args[1]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		reg.Image.SetPrompt("Describe this image in one sentence.")
		text, _ := reg.Image.Run(ctx)
		fmt.Printf("\n[%s] %s\n%s\n", reg.Image.Preview().Summary(), reg.Image.Mode().Title(), text)
	}
}
