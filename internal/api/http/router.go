package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentloop-backend/internal/security"
	"rentloop-backend/internal/service"
)

// NewRouter wires every API route behind the auth middleware.
func NewRouter(svc service.Orchestrator, notes service.NotificationService, tokens security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	bookings := NewBookingHandler(svc)
	api.HandleFunc("/bookings", bookings.Create).Methods("POST")
	api.HandleFunc("/bookings/rentals", bookings.ListRentals).Methods("GET")
	api.HandleFunc("/bookings/lendings", bookings.ListLendings).Methods("GET")
	api.HandleFunc("/bookings/{id}", bookings.Get).Methods("GET")
	api.HandleFunc("/bookings/{id}/accept", bookings.Accept).Methods("POST")
	api.HandleFunc("/bookings/{id}/cancel", bookings.Cancel).Methods("POST")
	api.HandleFunc("/bookings/{id}/return", bookings.InitiateReturn).Methods("POST")
	api.HandleFunc("/bookings/{id}/dispute", bookings.Dispute).Methods("POST")
	api.HandleFunc("/bookings/{id}/resolve", bookings.ResolveDispute).Methods("POST")

	deliveries := NewDeliveryHandler(svc)
	api.HandleFunc("/deliveries/jobs", deliveries.ListJobs).Methods("GET")
	api.HandleFunc("/deliveries/{id}", deliveries.Get).Methods("GET")
	api.HandleFunc("/deliveries/{id}/assign", deliveries.AssignAgent).Methods("POST")
	api.HandleFunc("/deliveries/{id}/start-pickup", deliveries.StartPickup).Methods("POST")
	api.HandleFunc("/deliveries/{id}/picked-up", deliveries.MarkPickedUp).Methods("POST")
	api.HandleFunc("/deliveries/{id}/out-for-delivery", deliveries.MarkOutForDelivery).Methods("POST")
	api.HandleFunc("/deliveries/{id}/delivered", deliveries.MarkDelivered).Methods("POST")
	api.HandleFunc("/deliveries/{id}/start-return", deliveries.StartReturnPickup).Methods("POST")
	api.HandleFunc("/deliveries/{id}/returned", deliveries.MarkReturned).Methods("POST")
	api.HandleFunc("/deliveries/{id}/location", deliveries.UpdateLocation).Methods("PUT")
	api.HandleFunc("/deliveries/{id}/location", deliveries.GetLocation).Methods("GET")

	notifications := NewNotificationHandler(notes)
	api.HandleFunc("/notifications", notifications.List).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", notifications.MarkAsRead).Methods("POST")

	return router
}
