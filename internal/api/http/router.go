package http

import (
	"net/http"

	"vehicle-rental-agency/internal/config"
	"vehicle-rental-agency/internal/security"
	"vehicle-rental-agency/internal/service"

	"github.com/gorilla/mux"
)

// NewRouter registers the agency endpoints. Each route is named so the auth
// middleware can look up its security level.
func NewRouter(agency service.RentalAgency, auth service.AuthService, tm security.TokenManager) *mux.Router {
	h := NewHandler(agency, auth)

	router := mux.NewRouter()
	router.Use(LoggingMiddleware)
	router.Use(NewAuthMiddleware(tm).Handler)

	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet).Name(config.RouteHealth)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost).Name(config.RouteLogin)

	api.HandleFunc("/vehicles", h.ListVehicles).Methods(http.MethodGet).Name(config.RouteListVehicles)
	api.HandleFunc("/vehicles", h.AddVehicle).Methods(http.MethodPost).Name(config.RouteAddVehicle)
	api.HandleFunc("/vehicles/{id}/return", h.ReturnVehicle).Methods(http.MethodPost).Name(config.RouteReturnVehicle)

	api.HandleFunc("/customers", h.RegisterCustomer).Methods(http.MethodPost).Name(config.RouteRegisterCust)
	api.HandleFunc("/customers/{id}", h.GetCustomer).Methods(http.MethodGet).Name(config.RouteGetCustomer)

	api.HandleFunc("/rentals", h.ProcessRental).Methods(http.MethodPost).Name(config.RouteProcessRental)

	api.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet).Name(config.RouteListTransaction)
	api.HandleFunc("/reports/transactions", h.TransactionReport).Methods(http.MethodGet).Name(config.RouteReport)

	return router
}
