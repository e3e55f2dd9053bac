package router

import (
	"net/http"
	"school-api/access"
	_ "school-api/docs"
	"school-api/handler"
	"school-api/model"
	"school-api/schema"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Route binds one method and path to its authorization policy, payload schema and handler.
// A nil Policy marks a public route, which is served without the gate.
type Route struct {
	Method string
	Path   string
	Policy *access.Policy
	Schema schema.Schema
	Handle handler.AppHandler
}

// Handlers groups the domain handlers the route table dispatches to.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Meal       *handler.MealHandler
	Attendance *handler.AttendanceHandler
	Ingang     *handler.IngangHandler
	Outgo      *handler.OutgoHandler
}

func policy(p access.Policy) *access.Policy {
	return &p
}

// Routes builds the API route table. ingangSlots are the legal values of an application's time.
func Routes(h Handlers, ingangSlots []int) []Route {
	var (
		teacher  = policy(access.Allow(model.RoleTeacher))
		student  = policy(access.Allow(model.RoleStudent))
		everyone = policy(access.Allow(model.RoleTeacher, model.RoleStudent))
		anyone   = policy(access.Authenticated())
		ownClass = policy(access.Allow(model.RoleTeacher, model.RoleStudent).Matching("grade", "class"))
	)
	ingangSchema := handler.IngangApplicationSchema(ingangSlots)

	return []Route{
		{Method: http.MethodPost, Path: "/auth/login", Handle: h.Auth.Login},
		{Method: http.MethodPost, Path: "/auth/refresh", Handle: h.Auth.Refresh},
		{Method: http.MethodPost, Path: "/auth/logout", Policy: anyone, Handle: h.Auth.Logout},

		{Method: http.MethodGet, Path: "/users/me", Policy: everyone, Handle: h.User.Me},
		{Method: http.MethodPost, Path: "/users", Policy: teacher, Handle: h.User.CreateUser},

		{Method: http.MethodGet, Path: "/meal", Policy: everyone, Handle: h.Meal.ListMeals},
		{Method: http.MethodGet, Path: "/meal/{date}", Policy: everyone, Handle: h.Meal.GetMeal},
		{Method: http.MethodPost, Path: "/meal", Policy: teacher, Schema: handler.MealSchema, Handle: h.Meal.CreateMeal},
		{Method: http.MethodPut, Path: "/meal/{date}", Policy: teacher, Schema: handler.EditMealSchema, Handle: h.Meal.EditMeal},

		{Method: http.MethodPost, Path: "/attendance-log", Policy: student, Schema: handler.AttendanceLogSchema, Handle: h.Attendance.CreateAttendanceLog},
		{Method: http.MethodGet, Path: "/attendance-log/class-status", Policy: ownClass, Schema: handler.ClassStatusSchema, Handle: h.Attendance.ClassStatus},

		{Method: http.MethodGet, Path: "/ingang/status", Policy: everyone, Handle: h.Ingang.Status},
		{Method: http.MethodGet, Path: "/ingang/application", Policy: everyone, Handle: h.Ingang.ListApplications},
		{Method: http.MethodPost, Path: "/ingang/application", Policy: student, Schema: ingangSchema, Handle: h.Ingang.Apply},
		{Method: http.MethodDelete, Path: "/ingang/application", Policy: student, Schema: ingangSchema, Handle: h.Ingang.Cancel},

		{Method: http.MethodGet, Path: "/outgo-request", Policy: student, Handle: h.Outgo.ListMine},
		{Method: http.MethodGet, Path: "/outgo-request/{requestId}", Policy: everyone, Handle: h.Outgo.Get},
		{Method: http.MethodPost, Path: "/outgo-request", Policy: student, Schema: handler.OutgoRequestSchema, Handle: h.Outgo.Create},
		{Method: http.MethodPut, Path: "/outgo-request/{requestId}", Policy: anyone, Schema: handler.OutgoRequestSchema, Handle: h.Outgo.Edit},
		{Method: http.MethodPatch, Path: "/outgo-request/{requestId}/status", Policy: teacher, Schema: handler.OutgoDecisionSchema, Handle: h.Outgo.Decide},
	}
}

// NewRouter mounts routes behind gate, plus the health check and swagger UI.
func NewRouter(gate *handler.Gate, routes []Route) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	for _, route := range routes {
		pattern := route.Method + " " + route.Path
		if route.Policy == nil {
			mux.Handle(pattern, handler.ErrorHandlingMiddleware(route.Handle))
			continue
		}
		mux.Handle(pattern, gate.Guard(*route.Policy, route.Schema, route.Handle))
	}

	return mux
}
