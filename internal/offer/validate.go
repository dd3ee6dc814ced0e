package offer

import (
	"errors"
	"fmt"

	"github.com/Lllllllleong/commercialoffer/internal/models"
)

var ErrInvalidDocument = errors.New("invalid offer document")

// Validate checks a document loaded from outside the store: every section present,
// at most MaxPhotos photos and unique item ids.
func Validate(doc *models.OfferDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	var missing []string
	if doc.From == nil {
		missing = append(missing, "from")
	}
	if doc.To == nil {
		missing = append(missing, "to")
	}
	if doc.Discounts == nil {
		missing = append(missing, "discounts")
	}
	if doc.Footer == nil {
		missing = append(missing, "footer")
	} else if doc.Footer.Contact == nil {
		missing = append(missing, "footer.contact")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing sections %v", ErrInvalidDocument, missing)
	}

	if len(doc.Photos) > MaxPhotos {
		return fmt.Errorf("%w: %d photos, at most %d allowed", ErrInvalidDocument, len(doc.Photos), MaxPhotos)
	}
	seen := make(map[int64]bool, len(doc.Items))
	for _, item := range doc.Items {
		if seen[item.ID] {
			return fmt.Errorf("%w: duplicate item id %d", ErrInvalidDocument, item.ID)
		}
		seen[item.ID] = true
	}
	return nil
}
