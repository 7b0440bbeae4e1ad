package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/container-packer/internal/importer"
	"github.com/eugenenazirov/container-packer/internal/metrics"
	"github.com/eugenenazirov/container-packer/internal/packing"
	"github.com/eugenenazirov/container-packer/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	defaultMaxUnits    = 500
	// maxContainerMetres bounds the grid scan, which grows with container volume.
	maxContainerMetres = 50.0
	maxImportBytes     = 10 << 20
	maxJSONBytes       = 1 << 20
)

var importExtensions = map[string]string{
	"text/csv":   ".csv",
	"text/plain": ".csv",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
}

// Handler wires the packing engine, editor storage and metrics into HTTP handlers.
type Handler struct {
	packer   packing.Packer
	storage  storage.Storage
	recorder *metrics.Recorder
	logger   *zap.Logger
	maxUnits int

	clock func() time.Time

	mu             sync.RWMutex
	itemsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithLogger sets the logger used for pack run summaries.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics attaches a Prometheus recorder. Without one no metrics are
// collected and /metrics is not served.
func WithMetrics(recorder *metrics.Recorder) HandlerOption {
	return func(h *Handler) {
		h.recorder = recorder
	}
}

// WithMaxUnits caps the number of expanded units a single pack request may
// contain. Zero disables the cap.
func WithMaxUnits(limit int) HandlerOption {
	return func(h *Handler) {
		if limit >= 0 {
			h.maxUnits = limit
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(packer packing.Packer, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		packer:   packer,
		storage:  store,
		logger:   zap.NewNop(),
		maxUnits: defaultMaxUnits,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.itemsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetContainer(w http.ResponseWriter, r *http.Request) {
	_ = r
	c, err := h.storage.GetContainer()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, containerResponse{Container: c})
}

func (h *Handler) handlePutContainer(w http.ResponseWriter, r *http.Request) {
	var req packing.Container
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.storage.SetContainer(req)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, containerResponse{Container: c, Message: "Container updated successfully"})
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	_ = r
	items, err := h.storage.ListItems()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.itemsPayload(items))
}

func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req packing.ItemSpec
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.storage.AddItem(req)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	h.markItemsUpdated()
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req packing.ItemSpec
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.storage.UpdateItem(r.PathValue("id"), req)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	h.markItemsUpdated()
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.DeleteItem(r.PathValue("id")); err != nil {
		writeStorageError(w, err)
		return
	}
	h.markItemsUpdated()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleImportItems(w http.ResponseWriter, r *http.Request) {
	name := importFilename(r)
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)

	result, err := importer.Import(name, body)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, "Unsupported format", err.Error(),
				"Pass ?filename=items.csv or ?filename=items.xlsx, or set a matching Content-Type")
			return
		}
		writeInternalError(w, err)
		return
	}

	if len(result.Items) == 0 {
		resp := importResponse{Errors: result.Errors, Warnings: result.Warnings}
		resp.Error = "Nothing imported"
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	if err := h.storage.ReplaceItems(result.Items); err != nil {
		writeStorageError(w, err)
		return
	}
	h.markItemsUpdated()

	items, err := h.storage.ListItems()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	h.logger.Info("items imported",
		zap.String("filename", name),
		zap.Int("items", len(items)),
		zap.Int("row_errors", len(result.Errors)),
		zap.String("request_id", requestIDFromContext(r.Context())),
	)

	writeJSON(w, http.StatusOK, importResponse{
		Items:    items,
		Imported: len(items),
		Errors:   result.Errors,
		Warnings: result.Warnings,
	})
}

func (h *Handler) handleGetPack(w http.ResponseWriter, r *http.Request) {
	snap, err := h.storage.Snapshot()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	h.pack(w, r, snap.Items, snap.Container)
}

func (h *Handler) handlePostPack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c packing.Container
	if req.Container != nil {
		c = *req.Container
	} else {
		stored, err := h.storage.GetContainer()
		if err != nil {
			writeInternalError(w, err)
			return
		}
		c = stored
	}
	h.pack(w, r, req.Items, c)
}

func (h *Handler) pack(w http.ResponseWriter, r *http.Request, items []packing.ItemSpec, c packing.Container) {
	if err := packing.ValidateInput(items, c, h.maxUnits); err != nil {
		h.recorder.RecordRejected()
		switch {
		case errors.Is(err, packing.ErrTooManyUnits):
			suggestion := fmt.Sprintf("Reduce quantities to at most %d units in total", h.maxUnits)
			writeError(w, http.StatusUnprocessableEntity, "Too many units", err.Error(), suggestion)
		case errors.Is(err, packing.ErrInvalidItem), errors.Is(err, packing.ErrInvalidContainer):
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		default:
			writeInternalError(w, err)
		}
		return
	}

	if c.Length > maxContainerMetres || c.Width > maxContainerMetres || c.Height > maxContainerMetres {
		h.recorder.RecordRejected()
		writeError(w, http.StatusUnprocessableEntity, "Container too large",
			fmt.Sprintf("container dimensions are limited to %v m", maxContainerMetres),
			"Use metres for the container and centimetres for items")
		return
	}

	if err := r.Context().Err(); err != nil {
		return
	}

	start := time.Now()
	result := h.packer.Pack(items, c)
	elapsed := time.Since(start)
	stats := h.packer.Stats(items, c)

	h.recorder.RecordPack(elapsed, len(result.Placed), len(result.Unplaced), result.Dropped)
	h.logger.Info("pack completed",
		zap.Int("units", packing.UnitCount(items)),
		zap.Int("placed", len(result.Placed)),
		zap.Int("unplaced", len(result.Unplaced)),
		zap.Int("dropped", result.Dropped),
		zap.Duration("duration", elapsed),
		zap.String("request_id", requestIDFromContext(r.Context())),
	)

	if err := writeJSON(w, http.StatusOK, newPackResponse(c, result, stats, elapsed)); err != nil {
		h.logger.Error("pack response not sent",
			zap.Error(err),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
	}
}

func (h *Handler) itemsPayload(items []packing.ItemSpec) itemsResponse {
	return itemsResponse{
		Items:      items,
		TotalUnits: packing.UnitCount(items),
		UpdatedAt:  h.currentItemsUpdatedAt(),
	}
}

func (h *Handler) currentItemsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.itemsUpdatedAt
}

func (h *Handler) markItemsUpdated() {
	h.mu.Lock()
	h.itemsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// importFilename picks the name used for format detection: the filename
// query parameter wins over the Content-Type header.
func importFilename(r *http.Request) string {
	if name := r.URL.Query().Get("filename"); name != "" {
		return name
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	if ext, ok := importExtensions[mediaType]; ok {
		return "upload" + ext
	}
	return ""
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Invalid request", "request body is empty")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return false
	}
	return true
}

func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidItem):
		writeError(w, http.StatusBadRequest, "Invalid item", err.Error())
	case errors.Is(err, storage.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "Item not found", err.Error())
	case errors.Is(err, storage.ErrDuplicateItem):
		writeError(w, http.StatusConflict, "Duplicate item", err.Error(), "Omit the id to have one generated")
	case errors.Is(err, storage.ErrTooManyItems):
		writeError(w, http.StatusUnprocessableEntity, "Too many items", err.Error(), "Remove items or raise quantities instead")
	default:
		writeInternalError(w, err)
	}
}

// writeJSON encodes payload before sending the header, so an unencodable
// payload becomes a 500 with an error body. The encode error is returned.
func writeJSON(w http.ResponseWriter, status int, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal error","details":"response could not be encoded"}` + "\n"))
		return fmt.Errorf("encode response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = w.Write(append(body, '\n'))
	return nil
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
