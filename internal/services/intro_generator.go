package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Lllllllleong/commercialoffer/internal/gcp"
	"github.com/Lllllllleong/commercialoffer/internal/metrics"
	"github.com/Lllllllleong/commercialoffer/internal/models"
	"github.com/Lllllllleong/commercialoffer/internal/offer"
)

var (
	ErrGenerationInProgress  = errors.New("introduction generation already in progress")
	ErrGenerationUnavailable = errors.New("text generation is not configured")
	ErrEmptyGeneration       = errors.New("model returned an empty introduction")
)

// TextGenerator turns a prompt into free-form text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// IntroGenerator writes the offer introduction with a language model.
// Only one request runs at a time; a second call while one is outstanding is rejected, not queued.
type IntroGenerator struct {
	store     *offer.Store
	generator TextGenerator
	metrics   *metrics.Registry
	inFlight  atomic.Bool
}

// NewIntroGenerator creates a new IntroGenerator. A nil generator disables generation.
func NewIntroGenerator(store *offer.Store, generator TextGenerator, m *metrics.Registry) *IntroGenerator {
	return &IntroGenerator{store: store, generator: generator, metrics: m}
}

// InProgress reports whether a generation request is outstanding.
func (g *IntroGenerator) InProgress() bool { return g.inFlight.Load() }

// BuildIntroPrompt describes the client, the items and the three totals.
func BuildIntroPrompt(doc *models.OfferDocument, totals models.Totals) string {
	lines := make([]string, 0, len(doc.Items))
	for _, item := range doc.Items {
		lines = append(lines, "- "+item.Description)
	}
	return fmt.Sprintf(gcp.IntroUserPrompt,
		doc.To.Name,
		doc.To.Company,
		strings.Join(lines, "\n"),
		offer.FormatCurrency(totals.Standard),
		offer.FormatCurrency(totals.Optimal),
		offer.FormatCurrency(totals.Premium),
	)
}

// Process generates a new introduction and stores it. On any failure the document is left as it was.
func (g *IntroGenerator) Process(ctx context.Context) (string, error) {
	if g.generator == nil {
		return "", ErrGenerationUnavailable
	}
	if !g.inFlight.CompareAndSwap(false, true) {
		return "", ErrGenerationInProgress
	}
	defer g.inFlight.Store(false)

	doc, totals := g.store.Snapshot()
	logCtx := slog.With("offerNumber", doc.OfferNumber)
	logCtx.Info("Starting introduction generation.", "itemCount", len(doc.Items))

	g.metrics.GenerationTotal.Inc()
	start := time.Now()
	text, err := g.generator.GenerateText(ctx, BuildIntroPrompt(doc, totals))
	g.metrics.GenerationLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		g.metrics.GenerationFailed.Inc()
		logCtx.Error("Call to the language model failed", "error", err)
		return "", fmt.Errorf("failed to generate introduction: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		g.metrics.GenerationFailed.Inc()
		logCtx.Warn("Language model returned no text. Keeping the current introduction.")
		return "", ErrEmptyGeneration
	}

	g.store.SetIntroduction(text)
	logCtx.Info("Introduction generated.", "length", len(text))
	return text, nil
}
