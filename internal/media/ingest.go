package media

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Lllllllleong/commercialoffer/internal/metrics"
	"github.com/Lllllllleong/commercialoffer/internal/offer"
	"golang.org/x/sync/errgroup"
)

// File is one uploaded file from a file-selection event.
type File struct {
	Name string
	Data []byte
}

// Target is the part of the document store media ingestion writes to.
type Target interface {
	SetLogo(dataURL string)
	ReservePhotos(n int) (*offer.PhotoReservation, error)
}

// PhotoResult reports a photo batch. Files that failed are keyed by name;
// a repeated name is keyed as name#index.
type PhotoResult struct {
	Added  int
	Failed map[string]error
}

type Ingestor struct {
	target  Target
	metrics *metrics.Registry
}

func NewIngestor(target Target, m *metrics.Registry) *Ingestor {
	return &Ingestor{target: target, metrics: m}
}

// IngestLogo replaces the logo with the uploaded image.
func (in *Ingestor) IngestLogo(f File) error {
	dataURL, err := EncodeDataURL(f.Data)
	if err != nil {
		in.metrics.MediaDecodeFailed.Inc()
		return fmt.Errorf("logo %s: %w", f.Name, err)
	}
	in.target.SetLogo(dataURL)
	return nil
}

// IngestPhotos decodes files concurrently and appends each one as soon as it is ready,
// so the final order follows completion, not selection. A batch larger than the free
// slots is rejected up front with *offer.PhotoLimitError; an accepted batch holds its slots
// until it finishes. A file that fails to decode is reported in the result and does not
// affect the others.
func (in *Ingestor) IngestPhotos(ctx context.Context, files []File) (PhotoResult, error) {
	reservation, err := in.target.ReservePhotos(len(files))
	if err != nil {
		in.metrics.PhotosRejected.Add(float64(len(files)))
		return PhotoResult{}, err
	}
	defer reservation.Release()

	var (
		mu     sync.Mutex
		result = PhotoResult{Failed: map[string]error{}}
		eg     errgroup.Group
	)
	eg.SetLimit(offer.MaxPhotos)

	for i, f := range files {
		eg.Go(func() error {
			err := ctx.Err()
			if err == nil {
				var dataURL string
				if dataURL, err = EncodeDataURL(f.Data); err != nil {
					in.metrics.MediaDecodeFailed.Inc()
				} else {
					err = reservation.Add(dataURL)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("Photo was not added.", "file", f.Name, "error", err)
				key := f.Name
				if _, taken := result.Failed[key]; taken {
					key = fmt.Sprintf("%s#%d", f.Name, i)
				}
				result.Failed[key] = err
				return nil
			}
			result.Added++
			in.metrics.PhotosAdded.Inc()
			return nil
		})
	}
	_ = eg.Wait()
	return result, nil
}
