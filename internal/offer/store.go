package offer

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Lllllllleong/commercialoffer/internal/models"
	"github.com/bwmarrin/snowflake"
)

// MaxPhotos is the number of project photos an offer can carry.
const MaxPhotos = 3

var ErrUnknownItemField = errors.New("unknown item field")

// PhotoLimitError rejects a photo batch that would not fit. Remaining is the number of free slots.
type PhotoLimitError struct {
	Requested int
	Remaining int
}

func (e *PhotoLimitError) Error() string {
	return fmt.Sprintf("cannot add %d photos: %d slots remaining", e.Requested, e.Remaining)
}

// IDSource issues line item ids.
type IDSource interface {
	NextID() int64
}

type snowflakeIDs struct {
	node *snowflake.Node
}

// NewSnowflakeIDs returns an IDSource backed by a snowflake node.
func NewSnowflakeIDs(nodeID int64) (IDSource, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake.NewNode: %w", err)
	}
	return snowflakeIDs{node: node}, nil
}

func (s snowflakeIDs) NextID() int64 { return s.node.Generate().Int64() }

// ItemField addresses an editable part of a line item: its description or one tier price.
type ItemField struct {
	tier models.Tier
}

var ItemDescription = ItemField{}

func ItemPrice(t models.Tier) ItemField { return ItemField{tier: t} }

// ParseItemField accepts "description" and "prices.<tier>".
func ParseItemField(name string) (ItemField, error) {
	if name == "description" {
		return ItemDescription, nil
	}
	if rest, ok := strings.CutPrefix(name, "prices."); ok {
		if t, ok := models.ParseTier(rest); ok {
			return ItemPrice(t), nil
		}
	}
	return ItemField{}, fmt.Errorf("%w: %q", ErrUnknownItemField, name)
}

// Store owns the current offer. Every mutation replaces the document with a new value;
// documents returned by Get are never modified afterwards.
type Store struct {
	mu     sync.RWMutex
	doc    *models.OfferDocument
	totals models.Totals
	ids    IDSource
	lastID int64

	// reserved counts photo slots held by batches that are still decoding.
	reserved int
}

// NewStore starts a store from doc. Item ids are drawn from ids and are kept strictly
// above every id already present, so removed ids are never handed out again.
func NewStore(doc *models.OfferDocument, ids IDSource) *Store {
	s := &Store{doc: doc, ids: ids, totals: ComputeTotals(doc.Items)}
	for _, item := range doc.Items {
		s.lastID = max(s.lastID, item.ID)
	}
	return s
}

func (s *Store) Get() *models.OfferDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

func (s *Store) Totals() models.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals
}

// Snapshot returns the document together with the totals computed from its items.
func (s *Store) Snapshot() (*models.OfferDocument, models.Totals) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.totals
}

// Patch applies a typed edit.
func (s *Store) Patch(e Edit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = e.Apply(s.doc)
}

// PatchPath applies the edit addressed by a form identifier. The document is untouched on error.
func (s *Store) PatchPath(path, value string) error {
	e, err := ParseEdit(path, value)
	if err != nil {
		return err
	}
	s.Patch(e)
	return nil
}

func (s *Store) SetIntroduction(text string) {
	s.Patch(SetHeader{Field: Introduction, Value: text})
}

// setItems replaces the item sequence and recomputes totals before the lock is released.
// Callers must hold s.mu.
func (s *Store) setItems(items []models.LineItem) {
	next := *s.doc
	next.Items = items
	s.doc = &next
	s.totals = ComputeTotals(items)
}

// AddItem appends an empty item with zero prices and returns its id.
func (s *Store) AddItem() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.ids.NextID()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	items := make([]models.LineItem, len(s.doc.Items), len(s.doc.Items)+1)
	copy(items, s.doc.Items)
	s.setItems(append(items, models.LineItem{ID: id}))
	return id
}

// RemoveItem deletes the item with id. It reports false, changing nothing, if there is none.
func (s *Store) RemoveItem(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.doc.Items, func(it models.LineItem) bool { return it.ID == id })
	if idx < 0 {
		return false
	}
	s.setItems(slices.Delete(slices.Clone(s.doc.Items), idx, idx+1))
	return true
}

// UpdateItem edits one field of the item with id. Price input that does not parse becomes 0.
func (s *Store) UpdateItem(id int64, field ItemField, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.doc.Items, func(it models.LineItem) bool { return it.ID == id })
	if idx < 0 {
		return false
	}
	items := slices.Clone(s.doc.Items)
	if field == ItemDescription {
		items[idx].Description = value
	} else {
		items[idx].Prices = items[idx].Prices.With(field.tier, ParseAmount(value))
	}
	s.setItems(items)
	return true
}

// SetDiscount sets one tier of one discount category. Unknown names are ignored.
func (s *Store) SetDiscount(category, tier, value string) bool {
	c, ok := models.ParseCategory(category)
	if !ok {
		return false
	}
	t, ok := models.ParseTier(tier)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, _ := s.doc.Discounts.Get(c)
	next := *s.doc
	next.Discounts = s.doc.Discounts.With(c, cur.With(t, value))
	s.doc = &next
	return true
}

func (s *Store) SetContractDate(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	discounts := *s.doc.Discounts
	discounts.ContractDate = value
	next := *s.doc
	next.Discounts = &discounts
	s.doc = &next
}

func (s *Store) SetLogo(dataURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.doc
	next.Logo = dataURL
	s.doc = &next
}

func (s *Store) ClearLogo() { s.SetLogo("") }

// PhotoSlots returns how many more photos fit.
func (s *Store) PhotoSlots() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.freeSlots()
}

// freeSlots must be called with s.mu held.
func (s *Store) freeSlots() int {
	return MaxPhotos - len(s.doc.Photos) - s.reserved
}

// PhotoReservation holds photo slots for a batch whose files are still being decoded.
type PhotoReservation struct {
	store *Store
	left  int
}

// ReservePhotos holds n slots so that concurrent batches cannot overbook the photo cap.
// A batch that does not fit is rejected whole with a *PhotoLimitError.
func (s *Store) ReservePhotos(n int) (*PhotoReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if remaining := s.freeSlots(); n > remaining {
		return nil, &PhotoLimitError{Requested: n, Remaining: remaining}
	}
	s.reserved += n
	return &PhotoReservation{store: s, left: n}, nil
}

// Add appends a photo into one of the reserved slots.
func (r *PhotoReservation) Add(dataURL string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.left == 0 {
		return errors.New("photo reservation exhausted")
	}
	r.left--
	s.reserved--
	next := *s.doc
	next.Photos = slices.Concat(s.doc.Photos, []string{dataURL})
	s.doc = &next
	return nil
}

// Release returns the unused slots. It is safe to call more than once.
func (r *PhotoReservation) Release() {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved -= r.left
	r.left = 0
}

// AddPhotos appends photos as a batch. A batch that does not fit is rejected whole
// with a *PhotoLimitError and the document is unchanged.
func (s *Store) AddPhotos(photos ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.freeSlots()
	if len(photos) > remaining {
		return &PhotoLimitError{Requested: len(photos), Remaining: remaining}
	}
	if len(photos) == 0 {
		return nil
	}
	next := *s.doc
	next.Photos = slices.Concat(s.doc.Photos, photos)
	s.doc = &next
	return nil
}

// RemovePhoto deletes the photo at index. Out-of-range indexes are ignored.
func (s *Store) RemovePhoto(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.doc.Photos) {
		return false
	}
	next := *s.doc
	next.Photos = slices.Delete(slices.Clone(s.doc.Photos), index, index+1)
	s.doc = &next
	return true
}
