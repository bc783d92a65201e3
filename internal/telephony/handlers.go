package telephony

import (
	"net/http"

	"calldesk/internal/routing"
	"calldesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

// VoiceHandler converts provider voice webhooks to internal types,
// delegates to the router, and writes TwiML.
//
// No business logic here. The far end must always receive a renderable
// call-control document, so every failure path degrades to a spoken
// message instead of an HTTP error.

type VoiceHandler struct {
	Router *routing.Router

	// Status is optional; when set, progress push-backs are recorded.
	Status *StatusCache
}

func (h VoiceHandler) HandleVoice(c *gin.Context) {
	log := logger.FromGin(c)
	ctx := logger.With(c.Request.Context(), log)

	form, err := ParseVoiceForm(c.Request)
	if err != nil {
		log.Warn("voice webhook parse failed", "err", err)
		h.writeTwiML(c, routing.Decision{
			Action:   routing.ActionSay,
			Message:  "We are sorry, an application error has occurred. Goodbye.",
			Language: routing.DefaultLanguage,
		})
		return
	}

	d := h.Router.Route(ctx, form.ToCallEvent())

	h.writeTwiML(c, d)
}

func (h VoiceHandler) writeTwiML(c *gin.Context, d routing.Decision) {
	log := logger.FromGin(c)

	twiml, err := RenderTwiML(d)
	if err != nil {
		// Renderer rejected the decision; fall back to the apology so
		// the caller hears a message rather than a dropped call.
		log.Error("twiml render failed", "err", err, "action", string(d.Action))
		twiml, err = RenderTwiML(routing.Decision{
			Action:   routing.ActionSay,
			Message:  "We are sorry, an application error has occurred. Goodbye.",
			Language: routing.DefaultLanguage,
		})
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
	}
	c.Header("Content-Type", "application/xml")
	c.String(http.StatusOK, twiml)
}

// HandleStatusCallback acknowledges call progress push-backs.
// Recording is best-effort and observability-only; the response is
// success regardless so the provider does not retry.
func (h VoiceHandler) HandleStatusCallback(c *gin.Context) {
	log := logger.FromGin(c)

	form, err := ParseStatusForm(c.Request)
	if err != nil {
		log.Warn("status callback parse failed", "err", err)
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	log.Info("call status", "call_sid", form.CallSid, "call_status", form.CallStatus)

	if form.CallSid != "" {
		if err := h.Status.Record(c.Request.Context(), form.CallSid, form.CallStatus); err != nil {
			log.Warn("status record failed", "call_sid", form.CallSid, "err", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
