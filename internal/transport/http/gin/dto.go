package httpgin

import (
	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/service/query"
)

type CreateAccountRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateBookingRequest struct {
	TrainID   int64  `json:"train_id" binding:"required"`
	CoachType string `json:"coach_type" binding:"required"`
}

type AddTrainRequest struct {
	Name        string `json:"name" binding:"required"`
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	DayOfWeek   string `json:"day_of_week" binding:"required"`
}

type AddCoachRequest struct {
	CoachType string  `json:"coach_type" binding:"required"`
	Capacity  int     `json:"capacity" binding:"required,gt=0"`
	Fare      float64 `json:"fare" binding:"required,gt=0"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateAccountResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type CreateBookingResponse struct {
	PNR int64 `json:"pnr"`
}

type BookingResponse struct {
	PNR       int64  `json:"pnr"`
	TrainID   int64  `json:"train_id"`
	CoachType string `json:"coach_type"`
}

type TrainSummaryResponse struct {
	TrainID     int64  `json:"train_id"`
	Name        string `json:"name"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DayOfWeek   string `json:"day_of_week"`
}

type CoachResponse struct {
	CoachType      string  `json:"coach_type"`
	AvailableSeats int     `json:"available_seats"`
	Capacity       int     `json:"capacity"`
	Fare           float64 `json:"fare"`
}

type TrainResponse struct {
	TrainID     int64           `json:"train_id"`
	Name        string          `json:"name"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	DayOfWeek   string          `json:"day_of_week"`
	Coaches     []CoachResponse `json:"coaches"`
}

type AvailabilityResponse struct {
	TrainID        int64   `json:"train_id"`
	CoachType      string  `json:"coach_type"`
	AvailableSeats int     `json:"available_seats"`
	Capacity       int     `json:"capacity"`
	Fare           float64 `json:"fare"`
}

func toBookingResponse(b domain.Booking) BookingResponse {
	return BookingResponse{PNR: b.PNR, TrainID: b.TrainID, CoachType: b.CoachType}
}

func toTrainSummaryResponse(t query.TrainSummary) TrainSummaryResponse {
	return TrainSummaryResponse{
		TrainID:     t.ID,
		Name:        t.Name,
		Origin:      t.Origin,
		Destination: t.Destination,
		DayOfWeek:   string(t.Day),
	}
}

func toTrainResponse(t domain.Train) TrainResponse {
	out := TrainResponse{
		TrainID:     t.ID,
		Name:        t.Name,
		Origin:      t.Origin,
		Destination: t.Destination,
		DayOfWeek:   string(t.Day),
		Coaches:     make([]CoachResponse, 0, len(t.Coaches)),
	}
	for _, c := range t.Coaches {
		out.Coaches = append(out.Coaches, CoachResponse{
			CoachType:      c.Type,
			AvailableSeats: c.Available,
			Capacity:       c.Capacity,
			Fare:           c.Fare,
		})
	}
	return out
}
