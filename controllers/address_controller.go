package controllers

import (
	"errors"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// findUserAddress loads an address owned by the user
func findUserAddress(db *gorm.DB, userID, addressID uint) (*models.Address, error) {
	var address models.Address
	if err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Address not found", err)
		}
		return nil, err
	}
	return &address, nil
}

// bindAddress binds, normalizes and validates an address body
func bindAddress(c *gin.Context) (utils.AddressInput, bool) {
	var input utils.AddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.LogError("Invalid address request body: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return input, false
	}
	input = utils.NormalizeAddress(input)
	if errs := utils.ValidateAddressFields(input); len(errs) > 0 {
		utils.LogDebug("Address validation failed: %v", errs)
		utils.BadRequest(c, errs[0].Message, errs)
		return input, false
	}
	return input, true
}

func applyAddressInput(address *models.Address, input utils.AddressInput) {
	address.Name = input.Name
	address.Phone = input.Phone
	address.AddressLine1 = input.AddressLine1
	address.AddressLine2 = input.AddressLine2
	address.City = input.City
	address.State = input.State
	address.Pincode = input.Pincode
	address.Type = input.Type
	address.IsDefault = input.IsDefault
}

func clearOtherDefaults(tx *gorm.DB, userID, keepID uint) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, keepID, true).
		Update("is_default", false).Error
}

// GetAddresses lists the user's saved addresses, default first
func GetAddresses(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var addresses []models.Address
	if err := config.DB.Where("user_id = ?", user.ID).Order("is_default DESC, id DESC").Find(&addresses).Error; err != nil {
		utils.LogError("Failed to fetch addresses for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch addresses", nil)
		return
	}

	utils.Success(c, "Addresses retrieved successfully", gin.H{
		"addresses":           addresses,
		"selected_address_id": user.SelectedAddressID,
	})
}

// AddAddress saves a new address; the first address becomes the default
func AddAddress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	input, ok := bindAddress(c)
	if !ok {
		return
	}

	address := models.Address{UserID: user.ID}
	applyAddressInput(&address, input)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Address{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			address.IsDefault = true
		}
		if err := tx.Create(&address).Error; err != nil {
			return err
		}
		if address.IsDefault {
			return clearOtherDefaults(tx, user.ID, address.ID)
		}
		return nil
	})
	if err != nil {
		utils.LogError("Failed to create address for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to save address", nil)
		return
	}

	utils.LogInfo("Address %d created for user %d", address.ID, user.ID)
	utils.Created(c, "Address added successfully", gin.H{"address": address})
}

// UpdateAddress replaces the fields of an owned address
func UpdateAddress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	address, err := findUserAddress(config.DB, user.ID, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	input, ok := bindAddress(c)
	if !ok {
		return
	}

	wasDefault := address.IsDefault
	applyAddressInput(address, input)
	if wasDefault && !address.IsDefault {
		// the only way to move the default is to mark another address
		address.IsDefault = true
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(address).Error; err != nil {
			return err
		}
		if address.IsDefault {
			return clearOtherDefaults(tx, user.ID, address.ID)
		}
		return nil
	})
	if err != nil {
		utils.LogError("Failed to update address %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update address", nil)
		return
	}

	utils.LogInfo("Address %d updated for user %d", id, user.ID)
	utils.Success(c, "Address updated successfully", gin.H{"address": address})
}

// DeleteAddress removes an owned address and repairs the default and selection
func DeleteAddress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	address, err := findUserAddress(config.DB, user.ID, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(address).Error; err != nil {
			return err
		}
		if user.SelectedAddressID != nil && *user.SelectedAddressID == address.ID {
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("selected_address_id", nil).Error; err != nil {
				return err
			}
		}
		if !address.IsDefault {
			return nil
		}
		var next models.Address
		err := tx.Where("user_id = ?", user.ID).Order("id DESC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_default", true).Error
	})
	if err != nil {
		utils.LogError("Failed to delete address %d: %v", id, err)
		utils.InternalServerError(c, "Failed to delete address", nil)
		return
	}

	utils.LogInfo("Address %d deleted for user %d", id, user.ID)
	utils.Success(c, "Address deleted successfully", nil)
}

// SelectAddress remembers the address chosen in the checkout address step
func SelectAddress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	address, err := findUserAddress(config.DB, user.ID, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("selected_address_id", address.ID).Error; err != nil {
		utils.LogError("Failed to select address %d for user %d: %v", id, user.ID, err)
		utils.InternalServerError(c, "Failed to select address", nil)
		return
	}

	utils.LogDebug("User %d selected address %d", user.ID, id)
	utils.Success(c, "Address selected", gin.H{"selected_address": address})
}

// selectedAddress resolves the selected address, falling back to the default one
func selectedAddress(db *gorm.DB, user models.User) (*models.Address, error) {
	if user.SelectedAddressID != nil {
		address, err := findUserAddress(db, user.ID, *user.SelectedAddressID)
		if err == nil {
			return address, nil
		}
		if !utils.IsNotFoundError(err) {
			return nil, err
		}
	}
	var address models.Address
	err := db.Where("user_id = ? AND is_default = ?", user.ID, true).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("No address selected", err)
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// GetSelectedAddress returns the address the checkout will ship to
func GetSelectedAddress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	address, err := selectedAddress(config.DB, user)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Selected address retrieved", gin.H{"selected_address": address})
}
