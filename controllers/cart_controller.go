package controllers

import (
	"strconv"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
)

// cartOwner resolves the cart key of the request, writing an error response when there is none
type cartOwner func(c *gin.Context) (string, bool)

func userCartOwner(c *gin.Context) (string, bool) {
	user, ok := currentUser(c)
	if !ok {
		return "", false
	}
	return utils.CartOwnerForUser(user.ID), true
}

func guestCartOwner(c *gin.Context) (string, bool) {
	id := c.GetString(utils.GuestSessionKey)
	if id == "" {
		utils.BadRequest(c, utils.ErrGuestSession, nil)
		return "", false
	}
	return utils.CartOwnerForGuest(id), true
}

// CartItemRequest represents an add or update body
type CartItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// respondCart re-reads the cart after a mutation and returns it
func respondCart(c *gin.Context, owner, message string) {
	view, err := utils.GetCartView(config.DB, owner)
	if err != nil {
		utils.LogError("Failed to load cart %s: %v", owner, err)
		utils.InternalServerError(c, "Failed to fetch cart", nil)
		return
	}
	if view.IsEmpty && message == "" {
		message = "Cart is empty"
	}
	if message == "" {
		message = "Cart retrieved successfully"
	}
	utils.Success(c, message, gin.H{"cart": view})
}

func getCart(owner cartOwner) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := owner(c)
		if !ok {
			return
		}
		respondCart(c, key, "")
	}
}

func addToCart(owner cartOwner) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := owner(c)
		if !ok {
			return
		}
		var req CartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.LogError("Invalid add to cart request for %s: %v", key, err)
			utils.BadRequest(c, "Invalid request", err.Error())
			return
		}
		if req.Quantity < 0 {
			utils.BadRequest(c, "Quantity must not be negative", nil)
			return
		}

		if err := utils.AddToCart(config.DB, key, req.ProductID, req.Size, req.Quantity); err != nil {
			utils.LogError("Add to cart failed for %s product %d: %v", key, req.ProductID, err)
			utils.RespondError(c, err)
			return
		}
		utils.LogInfo("Product %d added to cart %s", req.ProductID, key)
		respondCart(c, key, "Item added to cart")
	}
}

func updateCart(owner cartOwner) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := owner(c)
		if !ok {
			return
		}
		var req CartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request", err.Error())
			return
		}

		if err := utils.SetCartQuantity(config.DB, key, req.ProductID, req.Size, req.Quantity); err != nil {
			utils.LogError("Cart update failed for %s product %d: %v", key, req.ProductID, err)
			utils.RespondError(c, err)
			return
		}
		message := "Cart updated"
		if req.Quantity == 0 {
			message = "Item removed from cart"
		}
		respondCart(c, key, message)
	}
}

func removeFromCart(owner cartOwner) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := owner(c)
		if !ok {
			return
		}
		productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
		if err != nil || productID == 0 {
			utils.BadRequest(c, "Invalid product id", nil)
			return
		}

		if err := utils.RemoveFromCart(config.DB, key, uint(productID), c.Query("size")); err != nil {
			utils.LogError("Remove from cart failed for %s product %d: %v", key, productID, err)
			utils.RespondError(c, err)
			return
		}
		respondCart(c, key, "Item removed from cart")
	}
}

func clearCart(owner cartOwner) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := owner(c)
		if !ok {
			return
		}
		if err := utils.ClearCart(config.DB, key); err != nil {
			utils.LogError("Failed to clear cart %s: %v", key, err)
			utils.InternalServerError(c, "Failed to clear cart", nil)
			return
		}
		respondCart(c, key, "Cart cleared")
	}
}

// User cart handlers
var (
	GetCart        = getCart(userCartOwner)
	AddToCart      = addToCart(userCartOwner)
	UpdateCartItem = updateCart(userCartOwner)
	RemoveFromCart = removeFromCart(userCartOwner)
	ClearCart      = clearCart(userCartOwner)
)

// MergeCartRequest names the guest cart to fold into the user's cart
type MergeCartRequest struct {
	GuestSessionID string `json:"guest_session_id"`
}

// MergeGuestCart moves a guest cart into the signed-in user's cart
func MergeGuestCart(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req MergeCartRequest
	_ = c.ShouldBindJSON(&req)
	guestID := req.GuestSessionID
	if guestID == "" {
		guestID = utils.GuestSessionID(c)
	}
	if guestID == "" {
		utils.BadRequest(c, utils.ErrGuestSession, nil)
		return
	}

	owner := utils.CartOwnerForUser(user.ID)
	merged, err := utils.MergeCarts(config.DB, utils.CartOwnerForGuest(guestID), owner)
	if err != nil {
		utils.LogError("Failed to merge guest cart %s for user %d: %v", guestID, user.ID, err)
		utils.InternalServerError(c, "Failed to merge cart", nil)
		return
	}
	utils.ForgetGuestSession(c)

	view, err := utils.GetCartView(config.DB, owner)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch cart", nil)
		return
	}
	utils.LogInfo("Merged %d guest lines into user %d", merged, user.ID)
	utils.Success(c, "Cart merged", gin.H{"cart": view, "merged_items": merged})
}
