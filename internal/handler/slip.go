package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/phpdave11/gofpdf"

	"github.com/iliyamo/railway-reservation/internal/reservation"
)

// SlipHandler renders a boarding slip for a Confirmed or RAC ticket,
// adapted from nerry21-beckend_golang's passenger receipt generation:
// one page per ticket, passenger rows with their berth assignment.
type SlipHandler struct {
	Engine *reservation.Engine
}

func NewSlipHandler(e *reservation.Engine) *SlipHandler {
	return &SlipHandler{Engine: e}
}

// Slip handles GET /v1/tickets/:id/slip.pdf.
func (h *SlipHandler) Slip(c echo.Context) error {
	id, err := ticketIDParam(c)
	if err != nil {
		return writeEngineError(c, err)
	}
	ticket, terr := h.Engine.Ticket(id)
	if terr != nil {
		return writeEngineError(c, terr)
	}
	if ticket.Status == reservation.StatusWaiting || ticket.Status == reservation.StatusCancelled {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   string(reservation.CodeValidation),
			"message": "boarding slips are only available for confirmed or RAC tickets",
		})
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Boarding Slip", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Ticket #%d - %s", ticket.ID, ticket.Status), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Booked: %s", ticket.BookingTime.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 7, "Passenger", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Age", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 7, "Berth", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range ticket.Passengers {
		berth := "-"
		if p.Berth != nil {
			berth = fmt.Sprintf("%s #%d", p.Berth.String(), p.BerthIndex)
		}
		pdf.CellFormat(70, 7, p.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", p.Age), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 7, berth, "1", 1, "C", false, 0, "")
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/pdf")
	c.Response().WriteHeader(http.StatusOK)
	return pdf.Output(c.Response())
}
