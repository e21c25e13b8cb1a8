package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/portvakt/portvakt/internal/api/middleware"
	"github.com/portvakt/portvakt/internal/engine"
)

// IncomingCallHandler receives call notifications from the 46elks
// telephony provider.
//
// The provider request carries no signature, and the from field is
// client-supplied, so anyone who can reach this endpoint can spoof a
// caller. Front it with network-level controls until provider request
// signing is in place.
type IncomingCallHandler struct {
	engine *engine.Engine
}

func NewIncomingCallHandler(e *engine.Engine) *IncomingCallHandler {
	return &IncomingCallHandler{engine: e}
}

// Handle processes POST /elks/incoming-call. 46elks sends form fields
// callid, from, to, direction and created; only from drives the decision,
// callid is kept for log correlation. The response always instructs the
// provider to hang up: the gate opens independently of the call.
func (h *IncomingCallHandler) Handle(c *gin.Context) {
	caller := c.PostForm("from")
	callID := c.PostForm("callid")

	middleware.GetRequestLogger(c).WithFields(map[string]interface{}{
		"caller":  caller,
		"call_id": callID,
	}).Info("Incoming call")

	h.engine.HandleCall(c.Request.Context(), caller)

	c.JSON(http.StatusOK, gin.H{"hangup": "true"})
}
