package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Lllllllleong/commercialoffer/internal/metrics"
	"github.com/Lllllllleong/commercialoffer/internal/models"
	"github.com/Lllllllleong/commercialoffer/internal/offer"
	"github.com/Lllllllleong/commercialoffer/internal/render"
	"github.com/Lllllllleong/commercialoffer/internal/services"
)

type stubGenerator struct {
	text string
	err  error
}

func (g stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.text, g.err
}

func newTestServer(t *testing.T, gen services.TextGenerator) (*offer.Store, http.Handler) {
	t.Helper()
	ids, err := offer.NewSnowflakeIDs(1)
	if err != nil {
		t.Fatalf("NewSnowflakeIDs: %v", err)
	}
	store := offer.NewStore(models.InitialOffer(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)), ids)
	m := metrics.NewRegistry()
	srv := NewServer(store,
		services.NewIntroGenerator(store, gen, m),
		services.NewPrintService(store, nil, render.PDFOptions{}, m),
		m,
	)
	return store, srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func pngFile(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, method, path, field string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write(data)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestGetOffer(t *testing.T) {
	_, h := newTestServer(t, nil)
	rec := do(t, h, http.MethodGet, "/offer", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing request id header")
	}
	var v render.View
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Totals.Standard != 500000 || len(v.Document.Items) != 2 {
		t.Fatalf("unexpected view: %+v", v.Totals)
	}
}

func TestPatchField(t *testing.T) {
	store, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPatch, "/offer/fields", models.FieldPatchRequest{Path: "footer.contact.phone1", Value: "+7 900"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if store.Get().Footer.Contact.Phone1 != "+7 900" {
		t.Fatalf("phone not updated")
	}

	before := store.Get()
	rec = do(t, h, http.MethodPatch, "/offer/fields", models.FieldPatchRequest{Path: "a.b.c.d", Value: "x"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if store.Get() != before {
		t.Fatalf("malformed path must leave the document untouched")
	}
}

func TestItemsLifecycle(t *testing.T) {
	store, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/offer/items", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d", rec.Code)
	}
	var created models.ItemCreatedResponse
	json.NewDecoder(rec.Body).Decode(&created)
	path := "/offer/items/" + jsonNumber(created.ID)

	rec = do(t, h, http.MethodPatch, path, models.ItemPatchRequest{Field: "prices.optimal", Value: "1000"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if got := store.Totals().Optimal; got != 646000 {
		t.Fatalf("optimal total = %v, want 646000", got)
	}

	if rec = do(t, h, http.MethodPatch, path, models.ItemPatchRequest{Field: "prices.gold", Value: "1"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field: expected 400, got %d", rec.Code)
	}
	if rec = do(t, h, http.MethodPatch, "/offer/items/999", models.ItemPatchRequest{Field: "description", Value: "x"}); rec.Code != http.StatusNotFound {
		t.Fatalf("missing item: expected 404, got %d", rec.Code)
	}

	if rec = do(t, h, http.MethodDelete, path, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}
	if rec = do(t, h, http.MethodDelete, path, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("second delete must be a no-op, got %d", rec.Code)
	}
	if got := store.Totals().Optimal; got != 645000 {
		t.Fatalf("optimal total = %v, want 645000", got)
	}
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestSetDiscount(t *testing.T) {
	store, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPut, "/offer/discounts/cash/premium", models.ValueRequest{Value: "5"})
	var resp models.DiscountResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if rec.Code != http.StatusOK || !resp.Applied {
		t.Fatalf("expected applied discount, got %d %+v", rec.Code, resp)
	}
	if v, _ := store.Get().Discounts.Get(models.CategoryCash); v.Premium != "5" {
		t.Fatalf("discount not stored: %+v", v)
	}

	rec = do(t, h, http.MethodPut, "/offer/discounts/bogus/premium", models.ValueRequest{Value: "5"})
	resp = models.DiscountResponse{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Applied {
		t.Fatalf("unknown category must not apply")
	}

	if rec = do(t, h, http.MethodPut, "/offer/discounts/contract-date", models.ValueRequest{Value: "2025-04-01"}); rec.Code != http.StatusNoContent {
		t.Fatalf("contract date: status %d", rec.Code)
	}
	if store.Get().Discounts.ContractDate != "2025-04-01" {
		t.Fatalf("contract date not stored")
	}
}

func TestLogoUploadAndClear(t *testing.T) {
	store, h := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, http.MethodPut, "/offer/logo", "logo", map[string][]byte{"logo.png": pngFile(t)}))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if !strings.HasPrefix(store.Get().Logo, "data:image/png;base64,") {
		t.Fatalf("logo not stored")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, http.MethodPut, "/offer/logo", "logo", map[string][]byte{"notes.txt": []byte("hello")}))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}

	if rec = do(t, h, http.MethodDelete, "/offer/logo", nil); rec.Code != http.StatusNoContent || store.Get().Logo != "" {
		t.Fatalf("logo not cleared")
	}
}

func TestPhotos(t *testing.T) {
	store, h := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, http.MethodPost, "/offer/photos", "photos", map[string][]byte{
		"a.png":   pngFile(t),
		"b.png":   pngFile(t),
		"bad.txt": []byte("nope"),
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var resp models.PhotoUploadResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Added != 2 || resp.Remaining != 1 || resp.Failed["bad.txt"] == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, http.MethodPost, "/offer/photos", "photos", map[string][]byte{
		"c.png": pngFile(t),
		"d.png": pngFile(t),
	}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var errResp models.ErrorResponse
	json.NewDecoder(rec.Body).Decode(&errResp)
	if errResp.Remaining == nil || *errResp.Remaining != 1 {
		t.Fatalf("expected remaining=1, got %+v", errResp)
	}
	if len(store.Get().Photos) != 2 {
		t.Fatalf("rejected batch must not add photos")
	}

	if rec = do(t, h, http.MethodDelete, "/offer/photos/0", nil); rec.Code != http.StatusNoContent || len(store.Get().Photos) != 1 {
		t.Fatalf("photo not removed")
	}
	if rec = do(t, h, http.MethodDelete, "/offer/photos/7", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("out of range removal must be ignored, got %d", rec.Code)
	}
}

func TestGenerateIntro(t *testing.T) {
	store, h := newTestServer(t, stubGenerator{text: "Здравствуйте!"})
	rec := do(t, h, http.MethodPost, "/offer/introduction/generate", nil)
	if rec.Code != http.StatusOK || store.Get().Introduction != "Здравствуйте!" {
		t.Fatalf("status %d, introduction %q", rec.Code, store.Get().Introduction)
	}

	_, h = newTestServer(t, stubGenerator{err: errors.New("boom")})
	if rec = do(t, h, http.MethodPost, "/offer/introduction/generate", nil); rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	_, h = newTestServer(t, nil)
	if rec = do(t, h, http.MethodPost, "/offer/introduction/generate", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestPrintAndMetrics(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/offer/print.pdf", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("status %d, content type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("body is not a PDF")
	}

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "offer_print_pages") {
		t.Fatalf("metrics missing print histogram: %d", rec.Code)
	}
}
