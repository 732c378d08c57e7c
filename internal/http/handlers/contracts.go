package handlers

import (
	"net/http"
	"strconv"

	apierrors "github.com/zvonline/contracts-service/internal/errors"
	"github.com/zvonline/contracts-service/internal/models"
)

// docxContentType — MIME-тип wordprocessingml-документа.
const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// GenerateContract — POST /contracts/generate: принимает поля договора,
// отдаёт заполненный docx как attachment. Ошибки — JSON-конверт.
func (h *Handlers) GenerateContract(w http.ResponseWriter, r *http.Request) {
	var req models.ContractRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errorInvalidArgument("malformed request body"))
		return
	}

	contract, err := h.Service.GenerateContract(r.Context(), req)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+contract.Filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(contract.Document)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(contract.Document)
}
