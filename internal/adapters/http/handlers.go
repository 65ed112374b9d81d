package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Caption/internal/app"
	"github.com/dkeye/Caption/internal/domain"
	"github.com/dkeye/Caption/internal/invite"
	"github.com/dkeye/Caption/internal/predict"
)

const serviceName = "sign-caption-backend"

// Handlers serves the read-only REST surface. Nothing here mutates
// room state.
type Handlers struct {
	Registry  *app.Registry
	Predictor *predict.Client
	STUNURLs  []string
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"service": serviceName,
		"rooms":   h.Registry.RoomCount(),
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handlers) RTCConfig(c *gin.Context) {
	servers := make([]webrtc.ICEServer, 0, len(h.STUNURLs))
	for _, u := range h.STUNURLs {
		servers = append(servers, webrtc.ICEServer{URLs: []string{u}})
	}
	c.JSON(http.StatusOK, gin.H{
		"webrtc": gin.H{"iceServers": servers},
	})
}

// RoomSnapshot serves the public view of a room. Unknown rooms answer
// with an empty participant list, not an error.
func (h *Handlers) RoomSnapshot(c *gin.Context) {
	roomID := domain.RoomID(c.Param("roomId"))
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"room": h.Registry.Snapshot(roomID),
	})
}

type invitationRequest struct {
	Email  string `json:"email" binding:"required,email"`
	RoomID string `json:"roomId" binding:"required,min=3,max=64"`
}

// CreateInvitation mints a stateless invite link. Nothing is stored,
// the validation error is the only user-visible failure in the system.
func (h *Handlers) CreateInvitation(c *gin.Context) {
	var req invitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	token := invite.NewToken()
	scheme := c.GetHeader("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
	}
	link := invite.Link(scheme, c.Request.Host, req.RoomID, token)

	log.Info().Str("module", "adapters.http").Str("email", req.Email).Str("link", link).Msg("invite issued")
	c.JSON(http.StatusOK, gin.H{"ok": true, "inviteLink": link})
}

type predictRequest struct {
	Landmarks []json.RawMessage `json:"landmarks"`
}

func (h *Handlers) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Landmarks) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":    false,
			"error": "Invalid request: landmarks array is required",
		})
		return
	}

	prediction, err := h.Predictor.Predict(c.Request.Context(), req.Landmarks)
	if err != nil {
		var upstream *predict.UpstreamError
		switch {
		case errors.Is(err, predict.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ok":    false,
				"error": "AI Model service is unavailable",
			})
		case errors.As(err, &upstream):
			c.JSON(upstream.Status, gin.H{"ok": false, "error": upstream.Message})
		default:
			log.Error().Err(err).Str("module", "adapters.http").Msg("prediction failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"ok":    false,
				"error": "Internal server error during prediction",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "prediction": prediction})
}

func (h *Handlers) PredictHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":               true,
		"aiModelAvailable": h.Predictor.Available(c.Request.Context()),
		"aiModelUrl":       h.Predictor.BaseURL(),
	})
}
