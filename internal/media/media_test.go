package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Lllllllleong/commercialoffer/internal/metrics"
	"github.com/Lllllllleong/commercialoffer/internal/models"
	"github.com/Lllllllleong/commercialoffer/internal/offer"
)

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, c)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func newStore(t *testing.T) *offer.Store {
	t.Helper()
	ids, err := offer.NewSnowflakeIDs(1)
	if err != nil {
		t.Fatalf("NewSnowflakeIDs: %v", err)
	}
	return offer.NewStore(models.InitialOffer(time.Now()), ids)
}

func TestEncodeAndParseDataURL(t *testing.T) {
	data := pngBytes(t, color.Black)
	url, err := EncodeDataURL(data)
	if err != nil {
		t.Fatalf("EncodeDataURL: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("unexpected prefix: %.40s", url)
	}
	mimeType, decoded, err := ParseDataURL(url)
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if mimeType != "image/png" || !bytes.Equal(decoded, data) {
		t.Fatalf("round trip mismatch: %s, %d bytes", mimeType, len(decoded))
	}
}

func TestEncodeDataURL_RejectsNonImages(t *testing.T) {
	if _, err := EncodeDataURL([]byte("%PDF-1.7 not an image")); !errors.Is(err, ErrNotImage) {
		t.Fatalf("pdf: expected ErrNotImage, got %v", err)
	}
	truncated := pngBytes(t, color.White)[:20]
	if _, err := EncodeDataURL(truncated); !errors.Is(err, ErrNotImage) {
		t.Fatalf("truncated png: expected ErrNotImage, got %v", err)
	}
}

func TestParseDataURL_Malformed(t *testing.T) {
	for _, in := range []string{"", "http://x/logo.png", "data:image/png;base64", "data:image/png,plain", "data:image/png;base64,@@@"} {
		if _, _, err := ParseDataURL(in); !errors.Is(err, ErrMalformedDataURL) {
			t.Fatalf("%q: expected ErrMalformedDataURL, got %v", in, err)
		}
	}
}

func TestIngestPhotos_FailedFileDoesNotBlockOthers(t *testing.T) {
	s := newStore(t)
	in := NewIngestor(s, metrics.NewRegistry())

	res, err := in.IngestPhotos(context.Background(), []File{
		{Name: "a.png", Data: pngBytes(t, color.Black)},
		{Name: "broken.png", Data: []byte("garbage")},
		{Name: "c.png", Data: pngBytes(t, color.White)},
	})
	if err != nil {
		t.Fatalf("IngestPhotos: %v", err)
	}
	if res.Added != 2 || len(res.Failed) != 1 || res.Failed["broken.png"] == nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	photos := s.Get().Photos
	if len(photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(photos))
	}
	for _, p := range photos {
		if !strings.HasPrefix(p, "data:image/png;base64,") {
			t.Fatalf("unexpected photo: %.40s", p)
		}
	}
}

func TestIngestPhotos_RejectsBatchOverLimit(t *testing.T) {
	s := newStore(t)
	if err := s.AddPhotos("p1", "p2"); err != nil {
		t.Fatalf("AddPhotos: %v", err)
	}
	in := NewIngestor(s, metrics.NewRegistry())

	files := []File{
		{Name: "a.png", Data: pngBytes(t, color.Black)},
		{Name: "b.png", Data: pngBytes(t, color.Black)},
		{Name: "c.png", Data: pngBytes(t, color.Black)},
	}
	_, err := in.IngestPhotos(context.Background(), files)
	var limit *offer.PhotoLimitError
	if !errors.As(err, &limit) || limit.Remaining != 1 {
		t.Fatalf("expected PhotoLimitError with 1 remaining, got %v", err)
	}
	if len(s.Get().Photos) != 2 {
		t.Fatalf("rejected batch changed photos")
	}
}

func TestIngestPhotos_RepeatedNamesKeepEveryFailure(t *testing.T) {
	in := NewIngestor(newStore(t), metrics.NewRegistry())
	res, err := in.IngestPhotos(context.Background(), []File{
		{Name: "scan.png", Data: []byte("garbage")},
		{Name: "scan.png", Data: []byte("also garbage")},
	})
	if err != nil {
		t.Fatalf("IngestPhotos: %v", err)
	}
	if res.Added != 0 || len(res.Failed) != 2 || res.Failed["scan.png"] == nil {
		t.Fatalf("expected two failure entries, got %+v", res.Failed)
	}
}

func TestIngestPhotos_ConcurrentBatchesCannotOverbook(t *testing.T) {
	s := newStore(t)
	in := NewIngestor(s, metrics.NewRegistry())
	batch := func() []File {
		return []File{
			{Name: "a.png", Data: pngBytes(t, color.Black)},
			{Name: "b.png", Data: pngBytes(t, color.White)},
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		rejected int
		added    int
	)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := in.IngestPhotos(context.Background(), batch())
			mu.Lock()
			defer mu.Unlock()
			var limit *offer.PhotoLimitError
			if errors.As(err, &limit) {
				rejected++
				return
			}
			added += res.Added
		}()
	}
	wg.Wait()

	if rejected != 1 || added != 2 {
		t.Fatalf("expected one whole batch to land and one to be rejected, got added=%d rejected=%d", added, rejected)
	}
	if got := len(s.Get().Photos); got != 2 || s.PhotoSlots() != 1 {
		t.Fatalf("unexpected photos: %d, slots %d", got, s.PhotoSlots())
	}
}

func TestIngestLogo(t *testing.T) {
	s := newStore(t)
	in := NewIngestor(s, metrics.NewRegistry())
	before := s.Get().Logo

	if err := in.IngestLogo(File{Name: "logo.txt", Data: []byte("hello")}); !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	if s.Get().Logo != before {
		t.Fatalf("failed logo upload changed the logo")
	}

	if err := in.IngestLogo(File{Name: "logo.png", Data: pngBytes(t, color.Black)}); err != nil {
		t.Fatalf("IngestLogo: %v", err)
	}
	if s.Get().Logo == before || !strings.HasPrefix(s.Get().Logo, "data:image/png;base64,") {
		t.Fatalf("logo not replaced")
	}
}
