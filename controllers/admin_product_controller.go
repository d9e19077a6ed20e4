package controllers

import (
	"errors"
	"strings"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxBulkIDs bounds a single bulk request
const maxBulkIDs = 200

// ProductRequest represents the product create/update body
type ProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	MRP         *decimal.Decimal `json:"mrp"`
	Sizes       []string         `json:"sizes"`
	Colors      []string         `json:"colors"`
	Stock       int              `json:"stock"`
	ImageURL    string           `json:"image_url"`
	IsActive    *bool            `json:"is_active"`
}

func validateProductRequest(req *ProductRequest) utils.FieldValidationErrors {
	var errs utils.FieldValidationErrors
	req.Name = utils.SanitizeString(req.Name)
	req.Category = utils.Title(strings.ToLower(utils.SanitizeString(req.Category)))
	req.Description = strings.TrimSpace(req.Description)
	req.ImageURL = strings.TrimSpace(req.ImageURL)

	if len(req.Name) < 2 || len(req.Name) > 120 {
		errs = append(errs, utils.FieldValidationError{Field: "name", Message: "Name must be 2-120 characters"})
	}
	if req.Category == "" {
		errs = append(errs, utils.FieldValidationError{Field: "category", Message: "Category is required"})
	}
	if !req.Price.IsPositive() {
		errs = append(errs, utils.FieldValidationError{Field: "price", Message: "Price must be greater than 0"})
	} else if !req.Price.Equal(req.Price.Round(2)) {
		errs = append(errs, utils.FieldValidationError{Field: "price", Message: "Price must have at most two decimal places"})
	}
	if req.MRP != nil && !req.MRP.IsZero() && req.MRP.LessThan(req.Price) {
		errs = append(errs, utils.FieldValidationError{Field: "mrp", Message: "MRP must not be below the price"})
	}
	if req.Stock < 0 {
		errs = append(errs, utils.FieldValidationError{Field: "stock", Message: "Stock must not be negative"})
	}
	return errs
}

func applyProductRequest(product *models.Product, req ProductRequest) {
	product.Name = req.Name
	product.Description = req.Description
	product.Category = req.Category
	product.Price = req.Price.Round(2)
	product.MRP = decimal.Zero
	if req.MRP != nil {
		product.MRP = req.MRP.Round(2)
	}
	product.Sizes = models.JoinList(req.Sizes)
	product.Colors = models.JoinList(req.Colors)
	product.Stock = req.Stock
	product.ImageURL = req.ImageURL
	product.IsActive = req.IsActive == nil || *req.IsActive
}

func adminProductResponse(p models.Product) gin.H {
	return gin.H{
		"product":    productItem(p),
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}

// AdminListProducts lists every product, including inactive ones
func AdminListProducts(c *gin.Context) {
	query := config.DB.Model(&models.Product{})
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ?", like)
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	switch c.Query("active") {
	case "true":
		query = query.Where("is_active = ?", true)
	case "false":
		query = query.Where("is_active = ?", false)
	}

	p := utils.NewPagination(c)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}
	p.SetTotal(total)

	var products []models.Product
	if err := query.Order("id DESC").Offset(p.Offset).Limit(p.Limit).Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}

	items := make([]ProductItem, 0, len(products))
	for _, product := range products {
		items = append(items, productItem(product))
	}
	utils.SuccessWithPagination(c, "Products retrieved successfully", gin.H{"products": items}, p)
}

// AdminCreateProduct adds a product to the catalog
func AdminCreateProduct(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid product request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if errs := validateProductRequest(&req); len(errs) > 0 {
		utils.BadRequest(c, errs[0].Message, errs)
		return
	}

	var product models.Product
	applyProductRequest(&product, req)
	active := product.IsActive
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		// is_active has a column default, so false is only kept by an explicit update
		if !active {
			return tx.Model(&product).Update("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		utils.LogError("Failed to create product %s: %v", req.Name, err)
		utils.InternalServerError(c, "Failed to create product", nil)
		return
	}

	utils.RecordAudit(c.Request.Context(), utils.AuditEntry{
		Actor:     adminActor(admin),
		Action:    "create",
		Entity:    "product",
		EntityIDs: []uint{product.ID},
		Data:      map[string]interface{}{"name": product.Name, "price": utils.FormatMoney(product.Price)},
		RequestID: requestID(c),
	})
	utils.LogInfo("Product %d created by %s", product.ID, admin.Email)
	utils.Created(c, "Product created successfully", adminProductResponse(product))
}

func findProduct(c *gin.Context) (*models.Product, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	var product models.Product
	if err := config.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Product not found")
			return nil, false
		}
		utils.InternalServerError(c, "Failed to fetch product", nil)
		return nil, false
	}
	return &product, true
}

// AdminUpdateProduct replaces a product's fields
func AdminUpdateProduct(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	product, ok := findProduct(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if errs := validateProductRequest(&req); len(errs) > 0 {
		utils.BadRequest(c, errs[0].Message, errs)
		return
	}

	applyProductRequest(product, req)
	if err := config.DB.Save(product).Error; err != nil {
		utils.LogError("Failed to update product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to update product", nil)
		return
	}

	utils.RecordAudit(c.Request.Context(), utils.AuditEntry{
		Actor:     adminActor(admin),
		Action:    "update",
		Entity:    "product",
		EntityIDs: []uint{product.ID},
		RequestID: requestID(c),
	})
	utils.LogInfo("Product %d updated by %s", product.ID, admin.Email)
	utils.Success(c, "Product updated successfully", adminProductResponse(*product))
}

// AdminDeleteProduct soft-deletes a product
func AdminDeleteProduct(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	product, ok := findProduct(c)
	if !ok {
		return
	}
	if err := config.DB.Delete(product).Error; err != nil {
		utils.LogError("Failed to delete product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to delete product", nil)
		return
	}

	utils.RecordAudit(c.Request.Context(), utils.AuditEntry{
		Actor:     adminActor(admin),
		Action:    "delete",
		Entity:    "product",
		EntityIDs: []uint{product.ID},
		RequestID: requestID(c),
	})
	utils.LogInfo("Product %d deleted by %s", product.ID, admin.Email)
	utils.Success(c, "Product deleted successfully", nil)
}

// BulkIDsRequest names the records of a bulk operation
type BulkIDsRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// BulkResult is the outcome for one id of a bulk operation
type BulkResult struct {
	ID      uint   `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func bulkSummary(results []BulkResult) gin.H {
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	return gin.H{
		"results":   results,
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	}
}

// uniqueIDs drops zeros and duplicates, keeping request order
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func bindBulkIDs(c *gin.Context, ids *[]uint) bool {
	*ids = uniqueIDs(*ids)
	if len(*ids) == 0 {
		utils.BadRequest(c, "Please select at least one item", nil)
		return false
	}
	if len(*ids) > maxBulkIDs {
		utils.BadRequest(c, "Too many items selected", gin.H{"max": maxBulkIDs})
		return false
	}
	return true
}

func succeededIDs(results []BulkResult) []uint {
	ids := []uint{}
	for _, r := range results {
		if r.Success {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// AdminBulkDeleteProducts soft-deletes several products
func AdminBulkDeleteProducts(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if !bindBulkIDs(c, &req.IDs) {
		return
	}

	results := make([]BulkResult, 0, len(req.IDs))
	for _, id := range req.IDs {
		res := config.DB.Delete(&models.Product{}, id)
		switch {
		case res.Error != nil:
			utils.LogError("Bulk delete failed for product %d: %v", id, res.Error)
			results = append(results, BulkResult{ID: id, Message: "Failed to delete product"})
		case res.RowsAffected == 0:
			results = append(results, BulkResult{ID: id, Message: "Product not found"})
		default:
			results = append(results, BulkResult{ID: id, Success: true})
		}
	}

	utils.RecordAudit(c.Request.Context(), utils.AuditEntry{
		Actor:     adminActor(admin),
		Action:    "bulk_delete",
		Entity:    "product",
		EntityIDs: succeededIDs(results),
		RequestID: requestID(c),
	})
	utils.LogInfo("Bulk product delete by %s: %d requested", admin.Email, len(req.IDs))
	utils.Success(c, "Bulk delete completed", bulkSummary(results))
}

// BulkProductUpdateRequest sets the given fields on every listed product
type BulkProductUpdateRequest struct {
	IDs      []uint           `json:"ids" binding:"required"`
	Price    *decimal.Decimal `json:"price"`
	Stock    *int             `json:"stock"`
	IsActive *bool            `json:"is_active"`
	Category *string          `json:"category"`
}

// productExists tells an unmatched update apart from one that changed nothing
func productExists(id uint) bool {
	var count int64
	if err := config.DB.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		utils.LogError("Failed to look up product %d: %v", id, err)
		return false
	}
	return count > 0
}

// AdminBulkUpdateProducts applies price, stock, status or category to several products
func AdminBulkUpdateProducts(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	var req BulkProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if !bindBulkIDs(c, &req.IDs) {
		return
	}

	updates := map[string]interface{}{}
	if req.Price != nil {
		if !req.Price.IsPositive() || !req.Price.Equal(req.Price.Round(2)) {
			utils.BadRequest(c, "Price must be greater than 0 with at most two decimals", nil)
			return
		}
		updates["price"] = req.Price.Round(2)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			utils.BadRequest(c, "Stock must not be negative", nil)
			return
		}
		updates["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Category != nil {
		category := utils.Title(strings.ToLower(utils.SanitizeString(*req.Category)))
		if category == "" {
			utils.BadRequest(c, "Category must not be empty", nil)
			return
		}
		updates["category"] = category
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	results := make([]BulkResult, 0, len(req.IDs))
	for _, id := range req.IDs {
		res := config.DB.Model(&models.Product{}).Where("id = ?", id).Updates(updates)
		switch {
		case res.Error != nil:
			utils.LogError("Bulk update failed for product %d: %v", id, res.Error)
			results = append(results, BulkResult{ID: id, Message: "Failed to update product"})
		case res.RowsAffected == 0 && !productExists(id):
			results = append(results, BulkResult{ID: id, Message: "Product not found"})
		default:
			results = append(results, BulkResult{ID: id, Success: true})
		}
	}

	auditData := map[string]interface{}{}
	for k, v := range updates {
		if d, ok := v.(decimal.Decimal); ok {
			v = utils.FormatMoney(d)
		}
		auditData[k] = v
	}
	utils.RecordAudit(c.Request.Context(), utils.AuditEntry{
		Actor:     adminActor(admin),
		Action:    "bulk_update",
		Entity:    "product",
		EntityIDs: succeededIDs(results),
		Data:      auditData,
		RequestID: requestID(c),
	})
	utils.LogInfo("Bulk product update by %s: %d requested", admin.Email, len(req.IDs))
	utils.Success(c, "Bulk update completed", bulkSummary(results))
}
