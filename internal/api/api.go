package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/Lllllllleong/commercialoffer/internal/media"
	"github.com/Lllllllleong/commercialoffer/internal/metrics"
	"github.com/Lllllllleong/commercialoffer/internal/models"
	"github.com/Lllllllleong/commercialoffer/internal/offer"
	"github.com/Lllllllleong/commercialoffer/internal/render"
	"github.com/Lllllllleong/commercialoffer/internal/services"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	maxUploadMemory = 32 << 20
	maxImageBytes   = 10 << 20
)

// Server exposes the offer editor over HTTP.
type Server struct {
	store   *offer.Store
	media   *media.Ingestor
	intro   *services.IntroGenerator
	print   *services.PrintService
	metrics *metrics.Registry
}

func NewServer(store *offer.Store, intro *services.IntroGenerator, printer *services.PrintService, m *metrics.Registry) *Server {
	return &Server{
		store:   store,
		media:   media.NewIngestor(store, m),
		intro:   intro,
		print:   printer,
		metrics: m,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/offer", s.getOffer).Methods(http.MethodGet)
	r.HandleFunc("/offer/fields", s.patchField).Methods(http.MethodPatch)
	r.HandleFunc("/offer/items", s.addItem).Methods(http.MethodPost)
	r.HandleFunc("/offer/items/{id}", s.updateItem).Methods(http.MethodPatch)
	r.HandleFunc("/offer/items/{id}", s.removeItem).Methods(http.MethodDelete)
	r.HandleFunc("/offer/discounts/contract-date", s.setContractDate).Methods(http.MethodPut)
	r.HandleFunc("/offer/discounts/{category}/{tier}", s.setDiscount).Methods(http.MethodPut)
	r.HandleFunc("/offer/logo", s.putLogo).Methods(http.MethodPut)
	r.HandleFunc("/offer/logo", s.deleteLogo).Methods(http.MethodDelete)
	r.HandleFunc("/offer/photos", s.addPhotos).Methods(http.MethodPost)
	r.HandleFunc("/offer/photos/{index}", s.removePhoto).Methods(http.MethodDelete)
	r.HandleFunc("/offer/introduction/generate", s.generateIntro).Methods(http.MethodPost)
	r.HandleFunc("/offer/print.pdf", s.printOffer).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	return r
}

func (s *Server) getOffer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, render.NewView(s.store.Snapshot()))
}

func (s *Server) patchField(w http.ResponseWriter, r *http.Request) {
	var req models.FieldPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.store.PatchPath(req.Path, req.Value); err != nil {
		s.metrics.EditsRejected.WithLabelValues("field").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.Edits.WithLabelValues("field").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	id := s.store.AddItem()
	s.metrics.Edits.WithLabelValues("item_add").Inc()
	writeJSON(w, http.StatusCreated, models.ItemCreatedResponse{ID: id})
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req models.ItemPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	field, err := offer.ParseItemField(req.Field)
	if err != nil {
		s.metrics.EditsRejected.WithLabelValues("item_update").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.store.UpdateItem(id, field, req.Value) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("item %d not found", id))
		return
	}
	s.metrics.Edits.WithLabelValues("item_update").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// removeItem is idempotent: removing an absent id succeeds without changes.
func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if s.store.RemoveItem(id) {
		s.metrics.Edits.WithLabelValues("item_remove").Inc()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setDiscount(w http.ResponseWriter, r *http.Request) {
	var req models.ValueRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	applied := s.store.SetDiscount(vars["category"], vars["tier"], req.Value)
	if applied {
		s.metrics.Edits.WithLabelValues("discount").Inc()
	} else {
		s.metrics.EditsRejected.WithLabelValues("discount").Inc()
	}
	writeJSON(w, http.StatusOK, models.DiscountResponse{Applied: applied})
}

func (s *Server) setContractDate(w http.ResponseWriter, r *http.Request) {
	var req models.ValueRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.store.SetContractDate(req.Value)
	s.metrics.Edits.WithLabelValues("contract_date").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) putLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart form")
		return
	}
	headers := r.MultipartForm.File["logo"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, `missing "logo" file`)
		return
	}
	f, err := readUpload(headers[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.media.IngestLogo(f); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, media.ErrNotImage) {
			status = http.StatusUnsupportedMediaType
		}
		writeError(w, status, err.Error())
		return
	}
	s.metrics.Edits.WithLabelValues("logo").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteLogo(w http.ResponseWriter, r *http.Request) {
	s.store.ClearLogo()
	s.metrics.Edits.WithLabelValues("logo").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addPhotos(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart form")
		return
	}
	headers := r.MultipartForm.File["photos"]
	files := make([]media.File, 0, len(headers))
	for _, h := range headers {
		f, err := readUpload(h)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		files = append(files, f)
	}

	res, err := s.media.IngestPhotos(r.Context(), files)
	var limitErr *offer.PhotoLimitError
	if errors.As(err, &limitErr) {
		remaining := limitErr.Remaining
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:     fmt.Sprintf("Можно загрузить не более %d фотографий. Осталось мест: %d", offer.MaxPhotos, remaining),
			Remaining: &remaining,
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := models.PhotoUploadResponse{Added: res.Added, Remaining: s.store.PhotoSlots()}
	if len(res.Failed) > 0 {
		resp.Failed = make(map[string]string, len(res.Failed))
		for name, ferr := range res.Failed {
			resp.Failed[name] = ferr.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// removePhoto ignores out-of-range indexes.
func (s *Server) removePhoto(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo index must be an integer")
		return
	}
	if s.store.RemovePhoto(index) {
		s.metrics.Edits.WithLabelValues("photo_remove").Inc()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) generateIntro(w http.ResponseWriter, r *http.Request) {
	text, err := s.intro.Process(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, models.GenerateIntroResponse{Status: "success", Introduction: text})
	case errors.Is(err, services.ErrGenerationInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrGenerationUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusBadGateway, "Не удалось сгенерировать введение. Попробуйте ещё раз.")
	}
}

func (s *Server) printOffer(w http.ResponseWriter, r *http.Request) {
	res, err := s.print.Process(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render offer")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="offer.pdf"`)
	if res.SpoolURI != "" {
		w.Header().Set("X-Spool-URI", res.SpoolURI)
	}
	if _, err := w.Write(res.PDF); err != nil {
		slog.Error("Failed to write PDF response", "error", err)
	}
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "item id must be an integer")
		return 0, false
	}
	return id, true
}

func readUpload(h *multipart.FileHeader) (media.File, error) {
	f, err := h.Open()
	if err != nil {
		return media.File{}, fmt.Errorf("failed to open upload %s: %w", h.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return media.File{}, fmt.Errorf("failed to read upload %s: %w", h.Filename, err)
	}
	if len(data) > maxImageBytes {
		return media.File{}, fmt.Errorf("upload %s exceeds %d bytes", h.Filename, maxImageBytes)
	}
	return media.File{Name: h.Filename, Data: data}, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		slog.Warn("Could not decode request body", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "Bad Request: could not parse JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// requestLogger tags every request with an id and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		slog.Info("Request handled.",
			"requestId", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
