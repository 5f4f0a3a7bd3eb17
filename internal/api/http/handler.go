package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/logger"
	"vehicle-rental-agency/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Handler serves the agency's REST API
type Handler struct {
	agency   service.RentalAgency
	auth     service.AuthService
	validate *validator.Validate
}

// NewHandler creates a new API handler
func NewHandler(agency service.RentalAgency, auth service.AuthService) *Handler {
	return &Handler{
		agency:   agency,
		auth:     auth,
		validate: validator.New(),
	}
}

// decode reads a JSON body into req and validates it. It writes the 400
// response itself and reports whether the handler should continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON", Details: err.Error()})
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation error", Details: err.Error()})
		return false
	}
	return true
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Login exchanges staff credentials for an access token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, expiresAt, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt})
}

// ListVehicles returns the fleet in insertion order
func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	fleet, err := h.agency.ListFleet(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]*VehicleResponse, 0, len(fleet))
	for i := range fleet {
		resp = append(resp, toVehicleResponse(&fleet[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddVehicle adds a vehicle to the fleet
func (h *Handler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	var req AddVehicleRequest
	if !h.decode(w, r, &req) {
		return
	}

	spec, err := domain.NewVehicleSpec(domain.VehicleCategory(req.Category), req.HasGPS, req.HasHelmet, req.LoadCapacity)
	if err != nil {
		writeError(w, err)
		return
	}
	vehicle, err := domain.NewVehicle(req.ID, req.Model, req.BaseRate, spec)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.agency.AddVehicle(r.Context(), vehicle); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleResponse(vehicle))
}

// ReturnVehicle marks a vehicle as available. Unknown IDs still answer 200
// with returned=false.
func (h *Handler) ReturnVehicle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	out, err := h.agency.ReturnVehicle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReturnResponse(out))
}

// RegisterCustomer registers a customer, generating an ID when none is given
func (h *Handler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req RegisterCustomerRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	customer, err := domain.NewCustomer(req.ID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	customer.Email = req.Email

	if err := h.agency.RegisterCustomer(r.Context(), customer); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

// GetCustomer returns a customer with loyalty status
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.agency.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

// ProcessRental rents a vehicle to a customer
func (h *Handler) ProcessRental(w http.ResponseWriter, r *http.Request) {
	var req ProcessRentalRequest
	if !h.decode(w, r, &req) {
		return
	}

	tx, err := h.agency.ProcessRental(r.Context(), req.VehicleID, req.CustomerID, req.Days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, RentalResponse{
		Transaction: tx,
		Message:     "Rental processed: " + tx.String(),
	})
}

// ListTransactions returns the transaction log in append order
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	log, err := h.agency.ListTransactions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if log == nil {
		log = []domain.RentalTransaction{}
	}
	writeJSON(w, http.StatusOK, log)
}

// TransactionReport renders the plain-text report
func (h *Handler) TransactionReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.agency.GenerateReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain and service errors to HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrVehicleNotAvailable):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: service.MsgVehicleNotAvailable})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAuthDisabled):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
