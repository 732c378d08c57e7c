package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	apierrors "github.com/zvonline/contracts-service/internal/errors"
	"github.com/zvonline/contracts-service/internal/models"
	"github.com/zvonline/contracts-service/internal/service"
)

// ContractService — контракт бизнес-логики, которую публикует HTTP-слой.
type ContractService interface {
	Organisations(ctx context.Context) ([]models.Organisation, error)
	OrganisationByID(ctx context.Context, id string) (models.Organisation, error)
	GenerateContract(ctx context.Context, req models.ContractRequest) (service.GeneratedContract, error)
}

// Handlers агрегирует зависимости HTTP-хендлеров.
type Handlers struct {
	Service ContractService
}

func New(s ContractService) *Handlers {
	return &Handlers{Service: s}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// errorInvalidArgument — локальная ошибка разбора входных данных -> 400;
// reason уходит клиенту в message.
func errorInvalidArgument(reason string) error {
	return &apierrors.InvalidArgumentError{Reason: reason}
}
