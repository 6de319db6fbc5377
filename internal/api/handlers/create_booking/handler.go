package create_booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/create_booking"
)

// IdempotencyKeyHeader заголовок ключа идемпотентности
const IdempotencyKeyHeader = "Idempotency-Key"

// ReplayedHeader выставляется, когда ответ взят из хранилища идемпотентности
const ReplayedHeader = "Idempotent-Replayed"

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidSchedule       = "укажите либо bookingDate и bookingTime, либо список dates"
	msgNoDates               = "не указано ни одной даты"
	msgInvalidInput          = "некорректные данные бронирования"
	msgDateInPast            = "дата бронирования в прошлом"
	msgServiceUnavailable    = "вариант услуги не найден или недоступен"
	msgMissingPricingInputs  = "для этой услуги нужны площадь и расстояние"
	msgInvalidMeasurement    = "замер вне допустимого диапазона"
	msgBookingCreationFailed = "не удалось сохранить ни одной даты"
	msgRequestInProgress     = "запрос с этим Idempotency-Key уже выполняется"
)

type Handler struct {
	useCase CreateBookingUseCase
	store   IdempotencyStore
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, store IdempotencyStore, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		store:   store,
		logger:  logger,
	}
}

// storedResponse ответ, сохраненный по ключу идемпотентности
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом дат)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse schedule: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSchedule)
		return
	}

	// Повторный запрос с тем же ключом получает сохраненный ответ
	key := h.idempotencyKey(r, userID)
	if key != "" {
		if replayed := h.replay(w, r, key); replayed {
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.release(r, key)
		h.respondUseCaseError(w, err, userID, req.ServiceVariantID)
		return
	}

	status := http.StatusCreated
	if result.IsPartial() {
		status = http.StatusMultiStatus
		h.logger.Warn("POST /bookings - Partial success: user_id=%s, created=%d of %d",
			userID, len(result.Bookings), result.TotalDays)
	}

	response := FromUseCaseResponse(result)
	h.save(r, key, status, response)

	h.logger.Info("POST /bookings - Booking created successfully: user_id=%s, bookings=%d, multi_day=%t",
		userID, len(result.Bookings), result.IsMultiDay)
	handlers.RespondJSON(w, status, response)
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, err error, userID, variantID string) {
	switch {
	case errors.Is(err, createBooking.ErrNoDatesProvided):
		h.logger.Warn("POST /bookings - No dates: user_id=%s", userID)
		handlers.RespondBadRequest(w, msgNoDates)

	case errors.Is(err, createBooking.ErrInvalidDate):
		h.logger.Warn("POST /bookings - Date in the past: user_id=%s, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgDateInPast)

	case errors.Is(err, createBooking.ErrInvalidInput):
		h.logger.Warn("POST /bookings - Invalid input: user_id=%s, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, createBooking.ErrServiceUnavailable):
		h.logger.Warn("POST /bookings - Variant unavailable: variant_id=%s", variantID)
		handlers.RespondNotFound(w, msgServiceUnavailable)

	case errors.Is(err, createBooking.ErrMissingPricingInputs):
		h.logger.Warn("POST /bookings - Missing pricing inputs: variant_id=%s", variantID)
		handlers.RespondUnprocessable(w, msgMissingPricingInputs)

	case errors.Is(err, createBooking.ErrInvalidMeasurement):
		h.logger.Warn("POST /bookings - Invalid measurement: variant_id=%s, error=%v", variantID, err)
		handlers.RespondUnprocessable(w, msgInvalidMeasurement)

	case errors.Is(err, createBooking.ErrBookingCreationFailed):
		h.logger.Error("POST /bookings - All dates failed: user_id=%s, error=%v", userID, err)
		handlers.RespondError(w, http.StatusInternalServerError, msgBookingCreationFailed)

	default:
		h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, variant_id=%s, error=%v",
			userID, variantID, err)
		handlers.RespondInternalError(w)
	}
}

// idempotencyKey ключ в хранилище: ключи разных пользователей не пересекаются
func (h *Handler) idempotencyKey(r *http.Request, userID string) string {
	if h.store == nil {
		return ""
	}
	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if key == "" {
		return ""
	}
	return userID + ":" + key
}

// replay отвечает сохраненным ответом или резервирует ключ.
// Возвращает true, если ответ уже записан.
func (h *Handler) replay(w http.ResponseWriter, r *http.Request, key string) bool {
	entry, found, err := h.store.Get(r.Context(), key)
	if err != nil {
		// Хранилище недоступно: выполняем запрос без защиты от повтора
		h.logger.Warn("POST /bookings - Idempotency store get failed: %v", err)
		return false
	}

	if found && entry.Pending {
		h.logger.Warn("POST /bookings - Request with key %s is in progress", key)
		handlers.RespondConflict(w, msgRequestInProgress)
		return true
	}

	if found {
		var stored storedResponse
		if err := json.Unmarshal(entry.Value, &stored); err == nil {
			h.logger.Info("POST /bookings - Replaying response for key %s", key)
			w.Header().Set(ReplayedHeader, "true")
			handlers.RespondJSON(w, stored.Status, stored.Body)
			return true
		}
		// Испорченную запись удаляем, иначе Reserve будет отвечать 409 до истечения TTL
		h.logger.Warn("POST /bookings - Corrupted idempotency entry for key %s", key)
		h.release(r, key)
	}

	reserved, err := h.store.Reserve(r.Context(), key)
	if err != nil {
		h.logger.Warn("POST /bookings - Idempotency store reserve failed: %v", err)
		return false
	}
	if !reserved {
		handlers.RespondConflict(w, msgRequestInProgress)
		return true
	}
	return false
}

func (h *Handler) save(r *http.Request, key string, status int, response interface{}) {
	if key == "" {
		return
	}
	body, err := json.Marshal(response)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to encode response for key %s: %v", key, err)
		h.release(r, key)
		return
	}
	value, _ := json.Marshal(storedResponse{Status: status, Body: body})
	if err := h.store.Save(r.Context(), key, value); err != nil {
		h.logger.Warn("POST /bookings - Failed to save response for key %s: %v", key, err)
	}
}

func (h *Handler) release(r *http.Request, key string) {
	if key == "" {
		return
	}
	if err := h.store.Release(r.Context(), key); err != nil {
		h.logger.Warn("POST /bookings - Failed to release key %s: %v", key, err)
	}
}
