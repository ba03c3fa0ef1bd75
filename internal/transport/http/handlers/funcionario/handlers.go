package funcionariohandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cadastro/internal/domain/funcionario"
	"cadastro/internal/transport/http/api"
	"cadastro/internal/transport/http/middleware"
)

// Service is the domain surface the handlers orchestrate.
type Service interface {
	List(ctx context.Context, p funcionario.ListParams) (*funcionario.ListResult, error)
	Export(ctx context.Context, p funcionario.ListParams, max int) ([]funcionario.Funcionario, error)
	Get(ctx context.Context, id int) (*funcionario.Funcionario, error)
	Create(ctx context.Context, in funcionario.Input) (*funcionario.Funcionario, error)
	Update(ctx context.Context, id int, in funcionario.Input) (*funcionario.Funcionario, error)
	Delete(ctx context.Context, id int) error
}

type Handler struct {
	Service   Service
	ExportMax int
}

func NewHandler(service Service, exportMax int) *Handler {
	return &Handler{Service: service, ExportMax: exportMax}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/funcionarios", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/export", h.handleExport)
		r.Route("/{funcionarioID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.List(r.Context(), listParamsFromRequest(r))
	if err != nil {
		h.fault(w, r, err, "Failed to fetch funcionarios")
		return
	}
	api.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		api.Message(w, http.StatusNotFound, "Funcionário não encontrado")
		return
	}

	record, err := h.Service.Get(r.Context(), id)
	if errors.Is(err, funcionario.ErrNotFound) {
		api.Message(w, http.StatusNotFound, "Funcionário não encontrado")
		return
	}
	if err != nil {
		h.fault(w, r, err, "Failed to fetch funcionario")
		return
	}
	api.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in funcionario.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Message(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	record, err := h.Service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err, "Failed to create funcionario")
		return
	}
	api.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		api.Message(w, http.StatusNotFound, "Funcionário não encontrado")
		return
	}

	var in funcionario.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Message(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	record, err := h.Service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err, "Failed to update funcionario")
		return
	}
	api.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		api.Message(w, http.StatusNotFound, "Funcionário não encontrado")
		return
	}

	err := h.Service.Delete(r.Context(), id)
	if errors.Is(err, funcionario.ErrNotFound) {
		api.Message(w, http.StatusNotFound, "Funcionário não encontrado")
		return
	}
	if err != nil {
		h.fault(w, r, err, "Failed to delete funcionario")
		return
	}
	api.Message(w, http.StatusOK, "Funcionário excluído com sucesso")
}

// writeError maps domain failures for the write paths: validation and
// conflict are client errors, not-found is 404, anything else is a fault.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, faultMessage string) {
	var verr *funcionario.ValidationError
	if errors.As(err, &verr) {
		api.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Dados inválidos",
			"errors":  verr.Issues,
		})
		return
	}
	var cerr *funcionario.ConflictError
	if errors.As(err, &cerr) {
		api.Message(w, http.StatusBadRequest, cerr.Message)
		return
	}
	if errors.Is(err, funcionario.ErrNotFound) {
		api.Message(w, http.StatusNotFound, "Funcionário não encontrado")
		return
	}
	h.fault(w, r, err, faultMessage)
}

func (h *Handler) fault(w http.ResponseWriter, r *http.Request, err error, message string) {
	slog.Error(message, "err", err, "requestId", middleware.GetRequestID(r.Context()))
	api.Message(w, http.StatusInternalServerError, message)
}

// recordID parses the path id. A non-numeric id behaves like a missing
// record, matching how a lookup on a nonsense id would land.
func recordID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "funcionarioID"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func listParamsFromRequest(r *http.Request) funcionario.ListParams {
	q := r.URL.Query()

	p := funcionario.ListParams{
		Search:    q.Get("search"),
		Funcao:    q.Get("funcao"),
		Page:      intQuery(q.Get("page"), 1),
		Limit:     intQuery(q.Get("limit"), funcionario.DefaultPageSize),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	switch q.Get("ativo") {
	case "true":
		ativo := true
		p.Ativo = &ativo
	case "false":
		ativo := false
		p.Ativo = &ativo
	}

	return p
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
