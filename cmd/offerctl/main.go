package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lllllllleong/commercialoffer/internal/app"
	"github.com/Lllllllleong/commercialoffer/internal/config"
	"github.com/Lllllllleong/commercialoffer/internal/models"
	"github.com/Lllllllleong/commercialoffer/internal/offer"
	"github.com/Lllllllleong/commercialoffer/internal/render"
	"github.com/urfave/cli/v2"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	inFlag := &cli.StringFlag{Name: "in", Usage: "offer document as JSON; the example offer is used when empty"}
	cliApp := &cli.App{
		Name:  "offerctl",
		Usage: "edit, total and print commercial offers",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the offer editor HTTP API",
				Flags:  []cli.Flag{inFlag},
				Action: serve,
			},
			{
				Name:  "render",
				Usage: "render an offer to PDF",
				Flags: []cli.Flag{
					inFlag,
					&cli.StringFlag{Name: "out", Usage: "output PDF path", Required: true},
					&cli.StringFlag{Name: "font", Usage: "UTF-8 TrueType font", EnvVars: []string{"PDF_FONT_PATH"}},
				},
				Action: renderPDF,
			},
			{
				Name:   "totals",
				Usage:  "print the per-tier totals of an offer",
				Flags:  []cli.Flag{inFlag},
				Action: printTotals,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		slog.Error("offerctl failed", "error", err)
		os.Exit(1)
	}
}

func loadOffer(path string) (*models.OfferDocument, error) {
	if path == "" {
		return models.InitialOffer(time.Now()), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read offer: %w", err)
	}
	doc := models.InitialOffer(time.Now())
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse offer %s: %w", path, err)
	}
	if err := offer.Validate(doc); err != nil {
		return nil, fmt.Errorf("offer %s: %w", path, err)
	}
	return doc, nil
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	doc, err := loadOffer(c.String("in"))
	if err != nil {
		return err
	}
	editor, err := app.NewEditor(c.Context, cfg, doc)
	if err != nil {
		return err
	}
	defer editor.Close()

	server := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: editor.Handler}
	go func() {
		<-c.Context.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	slog.Info("Offer editor listening.", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func renderPDF(c *cli.Context) error {
	doc, err := loadOffer(c.String("in"))
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	view := render.NewView(doc, offer.ComputeTotals(doc.Items))
	if err := render.WritePDF(&buf, view, render.PDFOptions{FontPath: c.String("font")}); err != nil {
		return err
	}
	optimized, pages, err := render.Optimize(buf.Bytes())
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.String("out"), optimized, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.String("out"), err)
	}
	slog.Info("Offer rendered.", "out", c.String("out"), "pageCount", pages, "bytes", len(optimized))
	return nil
}

func printTotals(c *cli.Context) error {
	doc, err := loadOffer(c.String("in"))
	if err != nil {
		return err
	}
	totals := offer.ComputeTotals(doc.Items)
	for _, t := range models.Tiers {
		fmt.Fprintf(c.App.Writer, "%-9s %s\n", t, offer.FormatCurrency(totals.Get(t)))
	}
	return nil
}
