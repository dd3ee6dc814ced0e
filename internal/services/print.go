package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/commercialoffer/internal/gcp"
	"github.com/Lllllllleong/commercialoffer/internal/metrics"
	"github.com/Lllllllleong/commercialoffer/internal/offer"
	"github.com/Lllllllleong/commercialoffer/internal/render"
	"github.com/google/uuid"
)

// Spool keeps a copy of every printed offer.
type Spool interface {
	Save(ctx context.Context, objectName string, pdf []byte) (string, error)
}

// GCSSpool writes printed offers to a bucket.
type GCSSpool struct {
	client     *storage.Client
	bucketName string
	backoff    time.Duration
}

func NewGCSSpool(client *storage.Client, bucketName string) *GCSSpool {
	return &GCSSpool{client: client, bucketName: bucketName, backoff: time.Second}
}

// Save uploads pdf and returns its gs:// URI. Transient failures are retried with backoff.
func (s *GCSSpool) Save(ctx context.Context, objectName string, pdf []byte) (string, error) {
	const maxRetries = 4
	err := withRetry(ctx, objectName, maxRetries, s.backoff, func(ctx context.Context) error {
		writeCtx, cancel := context.WithTimeout(ctx, time.Second*50)
		defer cancel()
		return gcp.SaveToGCSAtomically(writeCtx, s.client.Bucket(s.bucketName), objectName, "application/pdf", pdf)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("gs://%s/%s", s.bucketName, objectName), nil
}

// PrintResult is a rendered, optimised offer.
type PrintResult struct {
	PDF      []byte
	Pages    int
	SpoolURI string
}

// PrintService renders the current offer as a print-ready PDF.
type PrintService struct {
	store   *offer.Store
	spool   Spool
	opts    render.PDFOptions
	metrics *metrics.Registry
}

// NewPrintService creates a new PrintService. A nil spool keeps printed offers in memory only.
func NewPrintService(store *offer.Store, spool Spool, opts render.PDFOptions, m *metrics.Registry) *PrintService {
	return &PrintService{store: store, spool: spool, opts: opts, metrics: m}
}

func (p *PrintService) Process(ctx context.Context) (*PrintResult, error) {
	doc, totals := p.store.Snapshot()
	logCtx := slog.With("offerNumber", doc.OfferNumber)
	logCtx.Info("Rendering offer for print.")

	var buf bytes.Buffer
	if err := render.WritePDF(&buf, render.NewView(doc, totals), p.opts); err != nil {
		logCtx.Error("Failed to render PDF", "error", err)
		return nil, err
	}
	optimized, pages, err := render.Optimize(buf.Bytes())
	if err != nil {
		logCtx.Error("Failed to optimize rendered PDF", "error", err)
		return nil, err
	}
	p.metrics.PrintPages.Observe(float64(pages))
	res := &PrintResult{PDF: optimized, Pages: pages}

	if p.spool == nil {
		logCtx.Info("Offer rendered.", "pageCount", pages)
		return res, nil
	}
	objectName := fmt.Sprintf("%s/%s.pdf", spoolPrefix(doc.OfferNumber), uuid.NewString())
	uri, err := p.spool.Save(ctx, objectName, optimized)
	if err != nil {
		logCtx.Error("Failed to spool printed offer", "error", err, "object", objectName)
		return nil, fmt.Errorf("failed to spool printed offer: %w", err)
	}
	res.SpoolURI = uri
	logCtx.Info("Offer rendered and spooled.", "pageCount", pages, "spoolUri", uri)
	return res, nil
}

var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// spoolPrefix turns an offer number into a safe object name component.
func spoolPrefix(offerNumber string) string {
	sanitized := strings.Trim(nonAlphanumericRegex.ReplaceAllString(strings.ToLower(offerNumber), "_"), "_")

	const maxLength = 64
	if len(sanitized) > maxLength {
		sanitized = strings.Trim(sanitized[:maxLength], "_")
	}
	if sanitized == "" {
		return "unnumbered"
	}
	return sanitized
}
