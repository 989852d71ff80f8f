package handler

import (
	"bufio"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/config"
	"github.com/iliyamo/railway-reservation/internal/security"
)

// StaffHandler backs the login and audit-trail endpoints of the staff
// surface, following the teacher's auth.go conventions for login and
// token issuance, generalized to a single fixed staff account instead of
// a user table.
type StaffHandler struct {
	cfg          config.Config
	auditLogPath string
}

func NewStaffHandler(cfg config.Config, auditLogPath string) *StaffHandler {
	return &StaffHandler{cfg: cfg, auditLogPath: auditLogPath}
}

type staffLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /v1/staff/login.
func (h *StaffHandler) Login(c echo.Context) error {
	var req staffLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Username != h.cfg.StaffUsername || !security.ComparePassword(h.cfg.StaffPassHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	ttl := time.Duration(h.cfg.AccessTTLMin) * time.Minute
	token, err := security.IssueStaffToken(h.cfg.JWTSecret, req.Username, ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"expires_in":   int(ttl.Seconds()),
	})
}

// Audit handles GET /v1/staff/audit: it tails the append-only log the
// events.Consumer writes, most recent entries first.
func (h *StaffHandler) Audit(c echo.Context) error {
	f, err := os.Open(h.auditLogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return c.JSON(http.StatusOK, echo.Map{"entries": []string{}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read audit log"})
	}
	defer f.Close()

	const maxEntries = 200
	lines := make([]string, 0, maxEntries)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > maxEntries {
			lines = lines[1:]
		}
	}

	reversed := make([]string, len(lines))
	for i, l := range lines {
		reversed[len(lines)-1-i] = l
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": reversed})
}
