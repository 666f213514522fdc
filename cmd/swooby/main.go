package main

import (
	"log"

	"github.com/swooby/swoo.by/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ swooby failed to initialize: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ swooby failed to start: %v", err)
	}
}
