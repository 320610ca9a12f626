package handlers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Nikhilsuthar09/vtrip-api/api"
	"github.com/Nikhilsuthar09/vtrip-api/api/scheduler"
	"github.com/Nikhilsuthar09/vtrip-api/config"
	"github.com/Nikhilsuthar09/vtrip-api/databases"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	t := Trip{DB: databases.NewTripDatabase(a.dbHelper), UDB: databases.NewUserDatabase(a.dbHelper), RDB: databases.NewTripResourceDatabase(a.dbHelper)}
	j := JoinRequest{TDB: databases.NewTripDatabase(a.dbHelper), UDB: databases.NewUserDatabase(a.dbHelper), NDB: databases.NewNotificationDatabase(a.dbHelper), RQDB: databases.NewJoinRequestDatabase(a.dbHelper)}
	u := User{DB: databases.NewUserDatabase(a.dbHelper), TDB: databases.NewTripDatabase(a.dbHelper), NDB: databases.NewNotificationDatabase(a.dbHelper), RQDB: databases.NewJoinRequestDatabase(a.dbHelper), RDB: databases.NewTripResourceDatabase(a.dbHelper)}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// live notification feed for trip owners
	r.HandleFunc("/ws/notifications", HandleNotificationsWebSocket)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", http.HandlerFunc(m.CreateToken)).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/trip", api.Middleware(http.HandlerFunc(t.CreateTripHandler))).Methods("POST")
	apiCreate.Handle("/trip/join", api.Middleware(http.HandlerFunc(j.SubmitJoinRequestHandler))).Methods("POST")
	apiCreate.Handle("/trip/{trip_id}", api.Middleware(http.HandlerFunc(t.TripHandler))).Methods("GET")
	apiCreate.Handle("/trip/{trip_id}", api.Middleware(http.HandlerFunc(t.UpdateTripFieldHandler))).Methods("PATCH")
	apiCreate.Handle("/trip/{trip_id}", api.Middleware(http.HandlerFunc(t.DeleteTripHandler))).Methods("DELETE")
	apiCreate.Handle("/trip/{trip_id}/leave", api.Middleware(http.HandlerFunc(t.LeaveTripHandler))).Methods("POST")
	apiCreate.Handle("/trip/{trip_id}/travellers", api.Middleware(http.HandlerFunc(t.TripTravellersHandler))).Methods("GET")

	apiCreate.Handle("/trip/{trip_id}/days", api.Middleware(http.HandlerFunc(t.JourneyDaysHandler))).Methods("GET")
	apiCreate.Handle("/trip/{trip_id}/days/{day_id}/activities", api.Middleware(http.HandlerFunc(t.GetActivitiesHandler))).Methods("GET")
	apiCreate.Handle("/trip/{trip_id}/days/{day_id}/activities", api.Middleware(http.HandlerFunc(t.AddActivityHandler))).Methods("POST")
	apiCreate.Handle("/trip/{trip_id}/days/{day_id}/activities/{activity_id}", api.Middleware(http.HandlerFunc(t.DeleteActivityHandler))).Methods("DELETE")

	apiCreate.Handle("/trip/{trip_id}/packing", api.Middleware(http.HandlerFunc(t.GetPackingItemsHandler))).Methods("GET")
	apiCreate.Handle("/trip/{trip_id}/packing", api.Middleware(http.HandlerFunc(t.AddPackingItemHandler))).Methods("POST")
	apiCreate.Handle("/trip/{trip_id}/packing/{item_id}", api.Middleware(http.HandlerFunc(t.UpdatePackingItemHandler))).Methods("PUT")
	apiCreate.Handle("/trip/{trip_id}/packing/{item_id}", api.Middleware(http.HandlerFunc(t.DeletePackingItemHandler))).Methods("DELETE")

	apiCreate.Handle("/trip/{trip_id}/planned-expenses", api.Middleware(http.HandlerFunc(t.GetPlannedExpensesHandler))).Methods("GET")
	apiCreate.Handle("/trip/{trip_id}/planned-expenses", api.Middleware(http.HandlerFunc(t.AddPlannedExpenseHandler))).Methods("POST")
	apiCreate.Handle("/trip/{trip_id}/planned-expenses/{expense_id}", api.Middleware(http.HandlerFunc(t.DeletePlannedExpenseHandler))).Methods("DELETE")
	apiCreate.Handle("/trip/{trip_id}/expenses", api.Middleware(http.HandlerFunc(t.GetOnTripExpensesHandler))).Methods("GET")
	apiCreate.Handle("/trip/{trip_id}/expenses", api.Middleware(http.HandlerFunc(t.AddOnTripExpenseHandler))).Methods("POST")
	apiCreate.Handle("/trip/{trip_id}/expenses/{expense_id}", api.Middleware(http.HandlerFunc(t.DeleteOnTripExpenseHandler))).Methods("DELETE")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.DeleteUserHandler))).Methods("DELETE")
	apiCreate.Handle("/user/{user_id}/push-token", api.Middleware(http.HandlerFunc(u.UpdatePushTokenHandler))).Methods("PUT")
	apiCreate.Handle("/user/{user_id}/trips", api.Middleware(http.HandlerFunc(t.TripsByUserIDHandler))).Methods("GET")
	apiCreate.Handle("/user/{user_id}/notifications", api.Middleware(http.HandlerFunc(u.GetUserNotificationsHandler))).Methods("GET")
	apiCreate.Handle("/user/{user_id}/notifications/{notification_id}/read", api.Middleware(http.HandlerFunc(u.MarkNotificationAsReadHandler))).Methods("PUT")
	apiCreate.Handle("/user/{user_id}/notifications/{notification_id}/resolve", api.Middleware(http.HandlerFunc(j.ResolveJoinRequestHandler))).Methods("PUT")
	apiCreate.Handle("/user/{user_id}/notifications/{notification_id}", api.Middleware(http.HandlerFunc(u.DeleteNotificationHandler))).Methods("DELETE")
	apiCreate.Handle("/user/{user_id}/requested", api.Middleware(http.HandlerFunc(j.GetPendingRequestsHandler))).Methods("GET")
	apiCreate.Handle("/user/{user_id}/requested/{trip_id}", api.Middleware(http.HandlerFunc(j.RemovePendingRequestHandler))).Methods("DELETE")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, `{"alive": true}`)
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("vtrip-api has connected to the database")

	a.Scheduler = scheduler.NewScheduler(
		databases.NewTripDatabase(a.dbHelper),
		databases.NewNotificationDatabase(a.dbHelper),
		databases.NewJoinRequestDatabase(a.dbHelper),
		databases.NewTripResourceDatabase(a.dbHelper),
		databases.NewSchedulerLockDatabase(a.dbHelper),
	)
	a.Scheduler.Start()

	a.Router = a.New()
	return nil
}
