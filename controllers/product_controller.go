package controllers

import (
	"errors"
	"sort"
	"strings"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductItem is a product as rendered for the storefront
type ProductItem struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       string   `json:"price"`
	MRP         string   `json:"mrp,omitempty"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Stock       int      `json:"stock"`
	InStock     bool     `json:"in_stock"`
	ImageURL    string   `json:"image_url"`
	IsActive    bool     `json:"is_active"`
}

func productItem(p models.Product) ProductItem {
	item := ProductItem{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       utils.FormatMoney(p.Price),
		Sizes:       p.SizeList(),
		Colors:      p.ColorList(),
		Stock:       p.Stock,
		InStock:     p.Stock > 0,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
	}
	if p.MRP.GreaterThan(decimal.Zero) {
		item.MRP = utils.FormatMoney(p.MRP)
	}
	return item
}

var productSorts = map[string]string{
	"price_asc":  "price ASC, id ASC",
	"price_desc": "price DESC, id DESC",
	"newest":     "created_at DESC, id DESC",
	"name":       "name ASC, id ASC",
}

// whereListContains matches one value inside a comma separated column
func whereListContains(q *gorm.DB, column, value string) *gorm.DB {
	value = strings.ToUpper(strings.TrimSpace(value))
	return q.Where(column+" = ? OR "+column+" LIKE ? OR "+column+" LIKE ? OR "+column+" LIKE ?",
		value, value+",%", "%,"+value, "%,"+value+",%")
}

// applyProductFilters applies the catalog query string to a product query
func applyProductFilters(c *gin.Context, q *gorm.DB) (*gorm.DB, gin.H, error) {
	filters := gin.H{}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(category))
		filters["category"] = category
	}
	if size := strings.TrimSpace(c.Query("size")); size != "" {
		q = whereListContains(q, "sizes", size)
		filters["size"] = strings.ToUpper(size)
	}
	if color := strings.TrimSpace(c.Query("color")); color != "" {
		q = whereListContains(q, "colors", color)
		filters["color"] = strings.ToUpper(color)
	}
	if raw := c.Query("min_price"); raw != "" {
		min, err := utils.ParseMoney(raw)
		if err != nil {
			return nil, nil, utils.BadRequestError("Invalid min_price", err)
		}
		q = q.Where("price >= ?", min)
		filters["min_price"] = utils.FormatMoney(min)
	}
	if raw := c.Query("max_price"); raw != "" {
		max, err := utils.ParseMoney(raw)
		if err != nil {
			return nil, nil, utils.BadRequestError("Invalid max_price", err)
		}
		q = q.Where("price <= ?", max)
		filters["max_price"] = utils.FormatMoney(max)
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		filters["q"] = search
	}
	return q, filters, nil
}

// ListProducts lists active products with filters, sorting and pagination
func ListProducts(c *gin.Context) {
	utils.LogDebug("ListProducts called with query params: %v", c.Request.URL.Query())

	query, filters, err := applyProductFilters(c, config.DB.Model(&models.Product{}).Where("is_active = ?", true))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	sortKey := c.DefaultQuery("sort", "newest")
	order, ok := productSorts[sortKey]
	if !ok {
		utils.BadRequest(c, "Invalid sort", "sort must be one of price_asc, price_desc, newest, name")
		return
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
	if err := query.Order(order).Offset(p.Offset).Limit(p.Limit).Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}

	items := make([]ProductItem, 0, len(products))
	for _, product := range products {
		items = append(items, productItem(product))
	}

	utils.SuccessWithPagination(c, "Products retrieved successfully", gin.H{
		"products": items,
		"filters":  filters,
		"sort":     sortKey,
	}, p)
}

// GetProductDetails returns one active product
func GetProductDetails(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.Where("id = ? AND is_active = ?", id, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Product not found")
			return
		}
		utils.LogError("Failed to fetch product %d: %v", id, err)
		utils.InternalServerError(c, "Failed to fetch product", nil)
		return
	}

	utils.Success(c, "Product retrieved successfully", gin.H{"product": productItem(product)})
}

// CatalogFacets is what the storefront filter sidebar is built from
type CatalogFacets struct {
	Categories []string `json:"categories"`
	Sizes      []string `json:"sizes"`
	Colors     []string `json:"colors"`
	MinPrice   string   `json:"min_price"`
	MaxPrice   string   `json:"max_price"`
	Total      int      `json:"total"`
}

// buildFacets aggregates the distinct filter values of the given products
func buildFacets(products []models.Product) CatalogFacets {
	categories := map[string]bool{}
	sizes := map[string]bool{}
	colors := map[string]bool{}
	facets := CatalogFacets{Total: len(products)}
	min, max := decimal.Zero, decimal.Zero

	for i, p := range products {
		if p.Category != "" {
			categories[p.Category] = true
		}
		for _, s := range p.SizeList() {
			sizes[s] = true
		}
		for _, col := range p.ColorList() {
			colors[col] = true
		}
		if i == 0 || p.Price.LessThan(min) {
			min = p.Price
		}
		if i == 0 || p.Price.GreaterThan(max) {
			max = p.Price
		}
	}

	facets.Categories = sortedKeys(categories)
	facets.Sizes = sortedKeys(sizes)
	facets.Colors = sortedKeys(colors)
	facets.MinPrice = utils.FormatMoney(min)
	facets.MaxPrice = utils.FormatMoney(max)
	return facets
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FetchCatalog returns the catalog facets used to build the filter sidebar
func FetchCatalog(c *gin.Context) {
	var products []models.Product
	if err := config.DB.Select("id", "category", "sizes", "colors", "price").
		Where("is_active = ?", true).Find(&products).Error; err != nil {
		utils.LogError("Failed to load catalog facets: %v", err)
		utils.InternalServerError(c, "Failed to fetch catalog", nil)
		return
	}
	utils.Success(c, "Catalog retrieved successfully", buildFacets(products))
}
