package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/commercialoffer/internal/api"
	"github.com/Lllllllleong/commercialoffer/internal/config"
	"github.com/Lllllllleong/commercialoffer/internal/gcp"
	"github.com/Lllllllleong/commercialoffer/internal/metrics"
	"github.com/Lllllllleong/commercialoffer/internal/models"
	"github.com/Lllllllleong/commercialoffer/internal/offer"
	"github.com/Lllllllleong/commercialoffer/internal/render"
	"github.com/Lllllllleong/commercialoffer/internal/services"
)

// Editor holds one editing session and the clients it owns.
type Editor struct {
	Store   *offer.Store
	Handler http.Handler

	closers []func() error
}

// NewEditor wires a session around doc. Vertex AI and the print bucket are only
// contacted when they are configured.
func NewEditor(ctx context.Context, cfg *config.Config, doc *models.OfferDocument) (*Editor, error) {
	if err := offer.Validate(doc); err != nil {
		return nil, err
	}
	ids, err := offer.NewSnowflakeIDs(cfg.NodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create id source: %w", err)
	}
	store := offer.NewStore(doc, ids)
	m := metrics.NewRegistry()
	e := &Editor{Store: store}

	var generator services.TextGenerator
	if cfg.GenerationEnabled() {
		vertexClient, err := gcp.NewVertexClient(ctx, cfg.ProjectID, cfg.VertexAIRegion, cfg.GenerationModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create vertex client: %w", err)
		}
		e.closers = append(e.closers, vertexClient.Close)
		generator = vertexClient
	} else {
		slog.Warn("PROJECT_ID is not set. Introduction generation is disabled.")
	}

	var spool services.Spool
	if cfg.PrintBucket != "" {
		storageClient, err := storage.NewClient(ctx)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		e.closers = append(e.closers, storageClient.Close)
		spool = services.NewGCSSpool(storageClient, cfg.PrintBucket)
	}

	srv := api.NewServer(store,
		services.NewIntroGenerator(store, generator, m),
		services.NewPrintService(store, spool, render.PDFOptions{FontPath: cfg.PDFFontPath}, m),
		m,
	)
	e.Handler = srv.Handler()

	slog.Info("Offer editor initialised.",
		"offerNumber", doc.OfferNumber,
		"generation", generator != nil,
		"printBucket", cfg.PrintBucket,
	)
	return e, nil
}

// Close releases the external clients.
func (e *Editor) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
