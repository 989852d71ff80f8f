package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/reservation"
)

// ReservationHandler exposes four of the five core operations of spec.md
// §6 (Health lives in HealthHandler) over
// the in-memory *reservation.Engine, following the teacher's
// customer_reservation.go conventions for request decoding and
// echo.Map error responses.
type ReservationHandler struct {
	Engine *reservation.Engine
}

func NewReservationHandler(e *reservation.Engine) *ReservationHandler {
	return &ReservationHandler{Engine: e}
}

// passengerRequest is the wire shape of one passenger in a booking
// request body.
type passengerRequest struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	Gender           string `json:"gender"`
	IsParent         bool   `json:"is_parent"`
	ParentIdentifier string `json:"parent_identifier"`
}

type bookingRequest struct {
	Passengers []passengerRequest `json:"passengers"`
}

// Book handles POST /v1/tickets.
func (h *ReservationHandler) Book(c echo.Context) error {
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   string(reservation.CodeValidation),
			"message": "malformed request body",
		})
	}

	inputs := make([]reservation.PassengerInput, len(req.Passengers))
	for i, p := range req.Passengers {
		inputs[i] = reservation.PassengerInput{
			Name:             p.Name,
			Age:              p.Age,
			Gender:           reservation.Gender(p.Gender),
			IsParent:         p.IsParent,
			ParentIdentifier: p.ParentIdentifier,
		}
	}

	ticket, err := h.Engine.Book(inputs)
	if err != nil {
		return writeEngineError(c, err)
	}
	resp := ticketResponse(&ticket)
	resp["ticket_id"] = ticket.ID
	return c.JSON(http.StatusCreated, resp)
}

// Cancel handles DELETE /v1/tickets/:id.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := ticketIDParam(c)
	if err != nil {
		return writeEngineError(c, err)
	}
	result, cerr := h.Engine.Cancel(id)
	if cerr != nil {
		return writeEngineError(c, cerr)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"ticket_id": result.TicketID,
		"message":   result.Message,
	})
}

// Available handles GET /v1/availability.
func (h *ReservationHandler) Available(c echo.Context) error {
	v := h.Engine.Available()
	return c.JSON(http.StatusOK, echo.Map{
		"confirmed_available":    v.ConfirmedAvailable,
		"rac_available":          v.RACAvailable,
		"waiting_list_available": v.WaitingListAvailable,
		"available_berths": echo.Map{
			"lower":      v.Berths.Lower,
			"middle":     v.Berths.Middle,
			"upper":      v.Berths.Upper,
			"side_lower": v.Berths.SideLower,
		},
	})
}

// Booked handles GET /v1/tickets.
func (h *ReservationHandler) Booked(c echo.Context) error {
	v := h.Engine.Booked()
	confirmed := make([]echo.Map, len(v.Confirmed))
	for i, t := range v.Confirmed {
		confirmed[i] = ticketResponse(&t)
	}
	rac := make([]echo.Map, len(v.RAC))
	for i, t := range v.RAC {
		rac[i] = ticketResponse(&t)
	}
	waiting := make([]echo.Map, len(v.Waiting))
	for i, t := range v.Waiting {
		waiting[i] = ticketResponse(&t)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"confirmed": confirmed,
		"rac":       rac,
		"waiting":   waiting,
		"summary": echo.Map{
			"confirmed": v.Summary.Confirmed,
			"rac":       v.Summary.RAC,
			"waiting":   v.Summary.Waiting,
		},
	})
}

// errBadTicketID signals a malformed :id path parameter. Handlers pass it
// through writeEngineError the same way they do a *reservation.Error
// returned by the engine itself.
var errBadTicketID = &reservation.Error{Code: reservation.CodeValidation, Message: "ticket id must be an integer"}

func ticketIDParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, errBadTicketID
	}
	return id, nil
}

func ticketResponse(t *reservation.TicketView) echo.Map {
	passengers := make([]echo.Map, len(t.Passengers))
	for i, p := range t.Passengers {
		pm := echo.Map{
			"id":     p.ID,
			"name":   p.Name,
			"age":    p.Age,
			"gender": p.Gender,
			"berth":  nil,
		}
		if p.Berth != nil {
			pm["berth"] = p.Berth.String()
			pm["berth_index"] = p.BerthIndex
		}
		if p.RACPosition != nil {
			pm["rac_position"] = *p.RACPosition
		}
		if p.WaitingPosition != nil {
			pm["waiting_position"] = *p.WaitingPosition
		}
		passengers[i] = pm
	}
	return echo.Map{
		"id":           t.ID,
		"status":       t.Status,
		"booking_time": t.BookingTime,
		"passengers":   passengers,
	}
}

// writeEngineError maps a *reservation.Error to the HTTP status table of
// spec.md §7.
func writeEngineError(c echo.Context, err error) error {
	rerr, ok := err.(*reservation.Error)
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   string(reservation.CodeInternal),
			"message": "an internal error occurred",
		})
	}
	status := http.StatusInternalServerError
	switch rerr.Code {
	case reservation.CodeValidation:
		status = http.StatusBadRequest
	case reservation.CodeNoAvailability, reservation.CodeAlreadyCancelled:
		status = http.StatusConflict
	case reservation.CodeNotFound:
		status = http.StatusNotFound
	}
	return c.JSON(status, echo.Map{
		"error":   string(rerr.Code),
		"message": rerr.Message,
	})
}
