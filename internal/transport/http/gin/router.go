package httpgin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/railgo/internal/service"
	"github.com/kirinyoku/railgo/internal/service/account"
	"github.com/kirinyoku/railgo/internal/service/catalog"
	"github.com/kirinyoku/railgo/internal/service/query"
	"github.com/kirinyoku/railgo/internal/service/reservation"
)

func NewRouter(
	svcs *service.Services,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// accounts and sessions
	r.POST("/accounts", handleCreateAccount(svcs))
	r.POST("/session", handleLogin(svcs))
	r.DELETE("/session", handleLogout(svcs))

	// catalog reads
	r.GET("/trains/search", handleSearchTrains(svcs))
	r.GET("/trains/:id", handleGetTrain(svcs))
	r.GET("/trains/:id/availability", handleSeatAvailability(svcs))

	// bookings
	r.POST("/bookings", handleCreateBooking(svcs))
	r.GET("/bookings", handleListBookings(svcs))
	r.GET("/bookings/:pnr", handleGetBooking(svcs))
	r.DELETE("/bookings/:pnr", handleCancelBooking(svcs))

	// Admin-API
	// TODO: add admin middleware
	admin := r.Group("/admin")
	{
		admin.POST("/trains", handleAddTrain(svcs))
		admin.POST("/trains/:id/coaches", handleAddCoach(svcs))
	}

	return r
}

// --- Handlers ---

func handleCreateAccount(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		acc, err := svcs.Account.CreateAccount(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreateAccountResponse{
			UserID:   acc.ID,
			Username: acc.Username,
		})
	}
}

func handleLogin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		token, err := svcs.Account.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, LoginResponse{Token: token})
	}
}

func handleLogout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Account.Logout(c.Request.Context(), bearerToken(c)); err != nil {
			respondErr(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func handleSearchTrains(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Query("origin")
		destination := c.Query("destination")
		day := c.Query("day")
		if origin == "" || destination == "" || day == "" {
			badRequest(c, "origin, destination and day are required")
			return
		}

		trains, err := svcs.Query.SearchTrains(c.Request.Context(), origin, destination, day)
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]TrainSummaryResponse, 0, len(trains))
		for _, t := range trains {
			out = append(out, toTrainSummaryResponse(t))
		}

		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60")
	}
}

func handleGetTrain(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		trainID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		t, err := svcs.Query.GetTrain(c.Request.Context(), trainID)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, toTrainResponse(t), "public, max-age=15")
	}
}

func handleSeatAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		trainID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		coachType := c.Query("coach_type")
		if coachType == "" {
			badRequest(c, "coach_type is required")
			return
		}

		coach, err := svcs.Query.SeatAvailability(c.Request.Context(), trainID, coachType)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, AvailabilityResponse{
			TrainID:        trainID,
			CoachType:      coach.Type,
			AvailableSeats: coach.Available,
			Capacity:       coach.Capacity,
			Fare:           coach.Fare,
		}, "public, max-age=5")
	}
}

func handleCreateBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		pnr, err := svcs.Reservation.Book(c.Request.Context(), bearerToken(c), req.TrainID, req.CoachType)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreateBookingResponse{PNR: pnr})
	}
}

func handleCancelBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		pnr, ok := parseInt64Param(c, "pnr")
		if !ok {
			return
		}

		if err := svcs.Reservation.Cancel(c.Request.Context(), bearerToken(c), pnr); err != nil {
			respondErr(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func handleGetBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		pnr, ok := parseInt64Param(c, "pnr")
		if !ok {
			return
		}

		b, err := svcs.Query.CheckPNR(c.Request.Context(), bearerToken(c), pnr)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, toBookingResponse(b))
	}
}

func handleListBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := svcs.Query.PreviousBookings(c.Request.Context(), bearerToken(c))
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]BookingResponse, 0, len(bookings))
		for _, b := range bookings {
			out = append(out, toBookingResponse(b))
		}

		c.JSON(http.StatusOK, out)
	}
}

func handleAddTrain(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddTrainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		t, err := svcs.Catalog.AddTrain(c.Request.Context(), req.Name, req.Origin, req.Destination, req.DayOfWeek)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, TrainSummaryResponse{
			TrainID:     t.ID,
			Name:        t.Name,
			Origin:      t.Origin,
			Destination: t.Destination,
			DayOfWeek:   string(t.Day),
		})
	}
}

func handleAddCoach(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		trainID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		var req AddCoachRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		coach, err := svcs.Catalog.AddCoach(c.Request.Context(), trainID, req.CoachType, req.Capacity, req.Fare)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CoachResponse{
			CoachType:      coach.Type,
			AvailableSeats: coach.Available,
			Capacity:       coach.Capacity,
			Fare:           coach.Fare,
		})
	}
}

// --- Helpers ---

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// account service
	case errors.Is(err, account.ErrUsernameTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "username already taken"})
		return
	case errors.Is(err, account.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid username or password"})
		return
	case errors.Is(err, account.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
		return
	case errors.Is(err, account.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	// catalog service
	case errors.Is(err, catalog.ErrTrainNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "train not found"})
		return
	case errors.Is(err, catalog.ErrCoachTypeExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "coach type already exists"})
		return
	case errors.Is(err, catalog.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	// reservation service
	case errors.Is(err, reservation.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
		return
	case errors.Is(err, reservation.ErrTrainOrCoachNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "train or coach not found"})
		return
	case errors.Is(err, reservation.ErrNoSeatsAvailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no seats available"})
		return
	case errors.Is(err, reservation.ErrPNRNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "pnr not found"})
		return
	// query service
	case errors.Is(err, query.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
		return
	case errors.Is(err, query.ErrTrainNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "train not found"})
		return
	case errors.Is(err, query.ErrTrainOrCoachNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "train or coach not found"})
		return
	case errors.Is(err, query.ErrPNRNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "pnr not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
