package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/finkeeper/internal/server/storage"
	"github.com/iudanet/finkeeper/pkg/api"
)

// maxBodyBytes ограничение размера тела запроса
const maxBodyBytes = 1 << 20

// Entity запись, хранимая как JSON
type Entity interface {
	GetID() string
}

// ResourceConfig описывает один REST ресурс
type ResourceConfig[T Entity, In any] struct {
	// Validate проверяет входные данные POST
	Validate func(In) error
	// ValidateEntity проверяет полную запись из PUT
	ValidateEntity func(T) error
	// Build собирает новую запись с серверным id и владельцем
	Build func(id, owner string, in In, at time.Time) T
	// Stamp переносит id, владельца и created_at из сохраненной записи в новую
	Stamp func(incoming, stored T, at time.Time) T
	// Decorate досчитывает серверные поля перед отдачей клиенту, может быть nil
	Decorate func(ctx context.Context, userID string, items []T) ([]T, error)
	// Kind имя ресурса, совпадает с путем /api/v1/{Kind}
	Kind string
}

// ResourceHandler реализует CRUD для одного ресурса поверх RecordStorage
type ResourceHandler[T Entity, In any] struct {
	logger  *slog.Logger
	storage storage.RecordStorage
	now     func() time.Time
	cfg     ResourceConfig[T, In]
}

// NewResourceHandler создает handler ресурса
func NewResourceHandler[T Entity, In any](logger *slog.Logger, store storage.RecordStorage, cfg ResourceConfig[T, In]) *ResourceHandler[T, In] {
	return &ResourceHandler[T, In]{
		logger:  logger.With("resource", cfg.Kind),
		storage: store,
		now:     func() time.Time { return time.Now().UTC() },
		cfg:     cfg,
	}
}

// Register регистрирует маршруты ресурса
func (h *ResourceHandler[T, In]) Register(mux *http.ServeMux) {
	base := "/api/v1/" + h.cfg.Kind
	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("POST "+base, h.Create)
	mux.HandleFunc("PUT "+base+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
}

// List обрабатывает GET /api/v1/{kind}
func (h *ResourceHandler[T, In]) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	items, err := LoadAll[T](ctx, h.storage, userID, h.cfg.Kind)
	if err != nil {
		h.internalError(w, "failed to list records", err, userID)
		return
	}

	items, err = h.decorate(ctx, userID, items)
	if err != nil {
		h.internalError(w, "failed to decorate records", err, userID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, items)
}

// Create обрабатывает POST /api/v1/{kind}
func (h *ResourceHandler[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	var in In
	if !h.decode(w, r, &in) {
		return
	}

	if err := h.cfg.Validate(in); err != nil {
		h.logger.Warn("Validation failed", "user_id", userID, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, api.ErrCodeValidationFailed, err.Error())
		return
	}

	now := h.now()
	entity := h.cfg.Build(uuid.New().String(), userID, in, now)

	if err := h.save(ctx, entity, userID, now, now, h.storage.Insert); err != nil {
		h.internalError(w, "failed to insert record", err, userID)
		return
	}

	h.logger.Info("Record created", "user_id", userID, "entity_id", entity.GetID())
	h.respondOne(w, ctx, http.StatusCreated, userID, entity)
}

// Update обрабатывает PUT /api/v1/{kind}/{id}
func (h *ResourceHandler[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	var incoming T
	if !h.decode(w, r, &incoming) {
		return
	}

	if err := h.cfg.ValidateEntity(incoming); err != nil {
		h.logger.Warn("Validation failed", "user_id", userID, "entity_id", id, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, api.ErrCodeValidationFailed, err.Error())
		return
	}

	rec, err := h.storage.Get(ctx, userID, h.cfg.Kind, id)
	if err != nil {
		h.storageError(w, "failed to get record", err, userID, id)
		return
	}

	var stored T
	if err := json.Unmarshal(rec.Payload, &stored); err != nil {
		h.internalError(w, "failed to decode stored record", err, userID)
		return
	}

	now := h.now()
	entity := h.cfg.Stamp(incoming, stored, now)

	if err := h.save(ctx, entity, userID, rec.CreatedAt, now, h.storage.Update); err != nil {
		h.storageError(w, "failed to update record", err, userID, id)
		return
	}

	h.logger.Info("Record updated", "user_id", userID, "entity_id", id)
	h.respondOne(w, ctx, http.StatusOK, userID, entity)
}

// Delete обрабатывает DELETE /api/v1/{kind}/{id}
func (h *ResourceHandler[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	if err := h.storage.Delete(r.Context(), userID, h.cfg.Kind, id); err != nil {
		h.storageError(w, "failed to delete record", err, userID, id)
		return
	}

	h.logger.Info("Record deleted", "user_id", userID, "entity_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResourceHandler[T, In]) user(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		writeError(w, h.logger, http.StatusUnauthorized, api.ErrCodeMissingUser, api.UserHeader+" header is required")
		return "", false
	}
	return userID, true
}

func (h *ResourceHandler[T, In]) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		h.logger.Warn("Failed to decode request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, api.ErrCodeInvalidJSON, err.Error())
		return false
	}
	return true
}

func (h *ResourceHandler[T, In]) save(
	ctx context.Context,
	entity T,
	userID string,
	createdAt, updatedAt time.Time,
	write func(context.Context, storage.Record) error,
) error {
	payload, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	return write(ctx, storage.Record{
		ID:        entity.GetID(),
		UserID:    userID,
		Kind:      h.cfg.Kind,
		Payload:   payload,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	})
}

func (h *ResourceHandler[T, In]) decorate(ctx context.Context, userID string, items []T) ([]T, error) {
	if h.cfg.Decorate == nil {
		return items, nil
	}
	return h.cfg.Decorate(ctx, userID, items)
}

func (h *ResourceHandler[T, In]) respondOne(w http.ResponseWriter, ctx context.Context, status int, userID string, entity T) {
	items, err := h.decorate(ctx, userID, []T{entity})
	if err != nil {
		// запись уже сохранена, отдаем ее без серверных полей
		h.logger.Warn("Failed to decorate record", "user_id", userID, "entity_id", entity.GetID(), "error", err)
		items = []T{entity}
	}
	writeJSON(w, h.logger, status, items[0])
}

func (h *ResourceHandler[T, In]) storageError(w http.ResponseWriter, msg string, err error, userID, id string) {
	if errors.Is(err, storage.ErrRecordNotFound) {
		h.logger.Warn("Record not found", "user_id", userID, "entity_id", id)
		writeError(w, h.logger, http.StatusNotFound, api.ErrCodeNotFound, err.Error())
		return
	}
	h.internalError(w, msg, err, userID)
}

func (h *ResourceHandler[T, In]) internalError(w http.ResponseWriter, msg string, err error, userID string) {
	h.logger.Error(msg, "user_id", userID, "error", err)
	writeError(w, h.logger, http.StatusInternalServerError, api.ErrCodeInternal, "internal server error")
}

// LoadAll читает и декодирует все записи ресурса пользователя
func LoadAll[T any](ctx context.Context, store storage.RecordStorage, userID, kind string) ([]T, error) {
	records, err := store.List(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(records))
	for _, rec := range records {
		var item T
		if err := json.Unmarshal(rec.Payload, &item); err != nil {
			return nil, fmt.Errorf("failed to decode record %s: %w", rec.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}
