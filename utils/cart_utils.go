package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Govind-619/Threadly/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartOwnerForUser returns the cart key of a signed-in user
func CartOwnerForUser(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// CartOwnerForGuest returns the cart key of a guest session
func CartOwnerForGuest(sessionID string) string {
	return "guest:" + sessionID
}

// CartLine is one rendered cart row
type CartLine struct {
	ProductID   uint   `json:"product_id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Size        string `json:"size"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	ItemTotal   string `json:"item_total"`
	StockStatus string `json:"stock_status"`
	Available   bool   `json:"available"`
}

// CartView is the cart as returned after every read or mutation
type CartView struct {
	Items       []CartLine `json:"items"`
	ItemCount   int        `json:"item_count"`
	Subtotal    string     `json:"subtotal"`
	Shipping    string     `json:"shipping"`
	Total       string     `json:"total"`
	IsEmpty     bool       `json:"is_empty"`
	CanCheckout bool       `json:"can_checkout"`

	Summary OrderSummary `json:"-"`
}

// LoadCart reads the owner's cart with products; a missing cart is returned empty
func LoadCart(db *gorm.DB, owner string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.id ASC")
	}).Preload("Items.Product").Where("owner_key = ?", owner).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Cart{OwnerKey: owner, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &cart, nil
}

// BuildCartView prices the cart lines and computes the order summary
func BuildCartView(cart *models.Cart) CartView {
	view := CartView{Items: []CartLine{}, CanCheckout: true}
	subtotal := decimal.Zero

	for _, item := range cart.Items {
		p := item.Product
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		available := p.ID != 0 && p.IsActive && p.Stock >= item.Quantity
		if !available {
			view.CanCheckout = false
		}
		subtotal = subtotal.Add(lineTotal)
		view.ItemCount += item.Quantity
		view.Items = append(view.Items, CartLine{
			ProductID:   item.ProductID,
			Name:        p.Name,
			ImageURL:    p.ImageURL,
			Size:        item.Size,
			Price:       FormatMoney(p.Price),
			Quantity:    item.Quantity,
			ItemTotal:   FormatMoney(lineTotal),
			StockStatus: stockStatus(p, item.Quantity),
			Available:   available,
		})
	}

	view.IsEmpty = len(view.Items) == 0
	if view.IsEmpty {
		view.CanCheckout = false
	}

	shipping := ShippingFee()
	if view.IsEmpty {
		shipping = decimal.Zero
	}
	view.Summary = NewOrderSummary(subtotal, shipping)
	view.Subtotal = FormatMoney(view.Summary.Subtotal)
	view.Shipping = FormatMoney(view.Summary.Shipping)
	view.Total = FormatMoney(view.Summary.Total)
	return view
}

func stockStatus(p models.Product, quantity int) string {
	switch {
	case !p.IsActive || p.Stock == 0:
		return "Out of Stock"
	case p.Stock < quantity:
		return fmt.Sprintf("Only %d available", p.Stock)
	case p.Stock <= 3:
		return "Only a few left"
	default:
		return "In Stock"
	}
}

// GetCartView loads and renders the owner's cart
func GetCartView(db *gorm.DB, owner string) (CartView, error) {
	cart, err := LoadCart(db, owner)
	if err != nil {
		return CartView{}, err
	}
	return BuildCartView(cart), nil
}

func getOrCreateCart(db *gorm.DB, owner string) (*models.Cart, error) {
	var cart models.Cart
	if err := db.Where(models.Cart{OwnerKey: owner}).FirstOrCreate(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to open cart: %w", err)
	}
	return &cart, nil
}

// loadSellableProduct fetches an active product and checks the requested size
func loadSellableProduct(db *gorm.DB, productID uint, size string) (*models.Product, string, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", NotFoundError("Product not found", err)
		}
		return nil, "", err
	}
	if !product.IsActive {
		return nil, "", BadRequestError("Product is not available", nil)
	}

	size = strings.ToUpper(strings.TrimSpace(size))
	sizes := product.SizeList()
	if len(sizes) > 0 {
		if size == "" {
			return nil, "", BadRequestError("Please select a size", nil).WithDetails(map[string]interface{}{"sizes": sizes})
		}
		found := false
		for _, s := range sizes {
			if s == size {
				found = true
				break
			}
		}
		if !found {
			return nil, "", BadRequestError("Selected size is not available", nil).WithDetails(map[string]interface{}{"sizes": sizes})
		}
	} else {
		size = ""
	}
	return &product, size, nil
}

func checkQuantity(product *models.Product, quantity int) error {
	if quantity < MinCartQuantity {
		return BadRequestError(fmt.Sprintf("Quantity must be at least %d", MinCartQuantity), nil)
	}
	if quantity > MaxCartQuantity {
		return BadRequestError(fmt.Sprintf("Cannot add more than %d of the same item", MaxCartQuantity), nil)
	}
	if product.Stock < 1 {
		return BadRequestError("Product is out of stock", nil)
	}
	if quantity > product.Stock {
		return BadRequestError(fmt.Sprintf("Not enough stock. Available: %d", product.Stock), nil)
	}
	return nil
}

// AddToCart adds quantity of a product/size to the owner's cart
func AddToCart(db *gorm.DB, owner string, productID uint, size string, quantity int) error {
	if quantity == 0 {
		quantity = 1
	}
	return db.Transaction(func(tx *gorm.DB) error {
		product, size, err := loadSellableProduct(tx, productID, size)
		if err != nil {
			return err
		}
		cart, err := getOrCreateCart(tx, owner)
		if err != nil {
			return err
		}

		var line models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ? AND size = ?", cart.ID, productID, size).First(&line).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		total := line.Quantity + quantity
		if err := checkQuantity(product, total); err != nil {
			return err
		}

		if line.ID != 0 {
			return tx.Model(&line).Update("quantity", total).Error
		}
		return tx.Create(&models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Size:      size,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		}).Error
	})
}

// SetCartQuantity sets the quantity of an existing line; zero removes it
func SetCartQuantity(db *gorm.DB, owner string, productID uint, size string, quantity int) error {
	if quantity < 0 {
		return BadRequestError("Quantity must not be negative", nil)
	}
	if quantity == 0 {
		return RemoveFromCart(db, owner, productID, size)
	}
	return db.Transaction(func(tx *gorm.DB) error {
		line, err := findCartLine(tx, owner, productID, size)
		if err != nil {
			return err
		}
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return NotFoundError("Product not found", err)
		}
		if err := checkQuantity(&product, quantity); err != nil {
			return err
		}
		return tx.Model(line).Update("quantity", quantity).Error
	})
}

func findCartLine(db *gorm.DB, owner string, productID uint, size string) (*models.CartItem, error) {
	var line models.CartItem
	err := db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.owner_key = ? AND cart_items.product_id = ? AND cart_items.size = ?", owner, productID, strings.ToUpper(strings.TrimSpace(size))).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("Item not found in cart", err)
	}
	return &line, err
}

// RemoveFromCart deletes a line; an empty size removes every size of the product
func RemoveFromCart(db *gorm.DB, owner string, productID uint, size string) error {
	var cart models.Cart
	if err := db.Where("owner_key = ?", owner).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("Item not found in cart", err)
		}
		return err
	}

	q := db.Where("cart_id = ? AND product_id = ?", cart.ID, productID)
	if size = strings.ToUpper(strings.TrimSpace(size)); size != "" {
		q = q.Where("size = ?", size)
	}
	res := q.Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundError("Item not found in cart", nil)
	}
	return nil
}

// ClearCart removes every line from the owner's cart
func ClearCart(db *gorm.DB, owner string) error {
	var cart models.Cart
	if err := db.Where("owner_key = ?", owner).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}

// MergeCarts moves a guest cart into a user cart, capping quantities at stock and the line limit
func MergeCarts(db *gorm.DB, fromOwner, toOwner string) (int, error) {
	merged := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		from, err := LoadCart(tx, fromOwner)
		if err != nil {
			return err
		}
		if from.ID == 0 || len(from.Items) == 0 {
			return nil
		}
		to, err := getOrCreateCart(tx, toOwner)
		if err != nil {
			return err
		}

		for _, item := range from.Items {
			p := item.Product
			if p.ID == 0 || !p.IsActive || p.Stock < 1 {
				continue
			}
			var line models.CartItem
			err := tx.Where("cart_id = ? AND product_id = ? AND size = ?", to.ID, item.ProductID, item.Size).First(&line).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			quantity := line.Quantity + item.Quantity
			if quantity > MaxCartQuantity {
				quantity = MaxCartQuantity
			}
			if quantity > p.Stock {
				quantity = p.Stock
			}
			if line.ID != 0 {
				if err := tx.Model(&line).Update("quantity", quantity).Error; err != nil {
					return err
				}
			} else if err := tx.Create(&models.CartItem{
				CartID:    to.ID,
				ProductID: item.ProductID,
				Size:      item.Size,
				Quantity:  quantity,
				AddedAt:   time.Now(),
			}).Error; err != nil {
				return err
			}
			merged++
		}

		if err := tx.Where("cart_id = ?", from.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cart{}, from.ID).Error
	})
	return merged, err
}
