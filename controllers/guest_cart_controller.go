package controllers

import (
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
)

// CreateGuestSession issues a guest cart id and stores it in the cookie session
func CreateGuestSession(c *gin.Context) {
	if id := utils.GuestSessionID(c); id != "" {
		utils.Success(c, "Guest session active", gin.H{"guest_session_id": id})
		return
	}
	id, err := utils.IssueGuestSession(c)
	if err != nil {
		utils.LogError("Failed to create guest session: %v", err)
		utils.InternalServerError(c, "Failed to create guest session", nil)
		return
	}
	utils.LogDebug("Issued guest session %s", id)
	utils.Created(c, "Guest session created", gin.H{"guest_session_id": id})
}

// Guest cart handlers; the guest id is set by GuestSessionMiddleware
var (
	GetGuestCart        = getCart(guestCartOwner)
	AddToGuestCart      = addToCart(guestCartOwner)
	UpdateGuestCartItem = updateCart(guestCartOwner)
	RemoveFromGuestCart = removeFromCart(guestCartOwner)
	ClearGuestCart      = clearCart(guestCartOwner)
)
