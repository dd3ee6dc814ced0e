package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/commercialoffer/internal/app"
	"github.com/Lllllllleong/commercialoffer/internal/config"
	"github.com/Lllllllleong/commercialoffer/internal/models"
)

var (
	editor  *app.Editor
	once    sync.Once
	initErr error
)

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	functions.HTTP("HandleOffer", handleOffer)
}

// main is required by the Go Functions Framework.
func main() {}

func handleOffer(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}
		editor, initErr = app.NewEditor(context.Background(), cfg, models.InitialOffer(time.Now()))
	})
	if initErr != nil {
		slog.Error("CRITICAL: Offer editor initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	editor.Handler.ServeHTTP(w, r)
}
