package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
)

const cartItemNotFound = "Cart item not found"

type CartItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type CartProduct struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Price          float64  `json:"price"`
	CompareAtPrice *float64 `json:"compareAtPrice"`
	OnSale         bool     `json:"onSale"`
	Currency       string   `json:"currency"`
	Image          string   `json:"image"`
	InStock        bool     `json:"inStock"`
}

type CartLine struct {
	ID        string       `json:"id"`
	ProductID string       `json:"productId"`
	Quantity  int          `json:"quantity"`
	Product   *CartProduct `json:"product"`
	LineTotal float64      `json:"lineTotal"`
}

type Cart struct {
	Items      []CartLine `json:"items"`
	ItemsCount int        `json:"itemsCount"`
	Subtotal   float64    `json:"subtotal"`
}

type CartService struct {
	cart     CartStore
	products ProductStore
}

func NewCartService(cart CartStore, products ProductStore) *CartService {
	return &CartService{cart: cart, products: products}
}

// List returns the user's cart. Lines whose product was removed from the
// catalog stay listed without a product and do not count towards the
// subtotal.
func (s *CartService) List(ctx context.Context, userID primitive.ObjectID) (Cart, error) {
	items, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return Cart{}, storeFailure(err, cartItemNotFound)
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return Cart{}, storeFailure(err, productNotFound)
	}

	return buildCart(items, products), nil
}

func buildCart(items []models.CartItem, products map[primitive.ObjectID]models.Product) Cart {
	cart := Cart{Items: make([]CartLine, 0, len(items))}
	for _, it := range items {
		line := CartLine{
			ID:        it.ID.Hex(),
			ProductID: it.ProductID.Hex(),
			Quantity:  it.Quantity,
		}
		if p, ok := products[it.ProductID]; ok {
			line.Product = &CartProduct{
				ID:             p.ID.Hex(),
				Title:          p.Title,
				Slug:           p.Slug,
				Price:          p.Price,
				CompareAtPrice: p.CompareAtPrice,
				OnSale:         IsOnSale(p.Price, p.CompareAtPrice),
				Currency:       p.Currency,
				Image:          p.Image(),
				InStock:        p.InStock,
			}
			line.LineTotal = p.Price * float64(it.Quantity)
			cart.Subtotal += line.LineTotal
		}
		cart.ItemsCount += it.Quantity
		cart.Items = append(cart.Items, line)
	}
	return cart
}

// AddItem puts quantity units of a published, in-stock product into the
// cart, merging with an existing line.
func (s *CartService) AddItem(ctx context.Context, userID primitive.ObjectID, in CartItemInput) (models.CartItem, error) {
	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return models.CartItem{}, problem.Validation("quantity must be at least 1")
	}
	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		return models.CartItem{}, problem.Validation("productId is invalid")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return models.CartItem{}, storeFailure(err, productNotFound)
	}
	if !product.Published {
		return models.CartItem{}, problem.NotFound(productNotFound)
	}
	if !product.InStock {
		return models.CartItem{}, problem.Validation("Product is out of stock")
	}

	item, err := s.cart.Add(ctx, userID, productID, quantity)
	if err != nil {
		return models.CartItem{}, storeFailure(err, cartItemNotFound)
	}
	return item, nil
}

// UpdateItem sets the quantity of one of the user's cart lines.
func (s *CartService) UpdateItem(ctx context.Context, userID primitive.ObjectID, rawItemID string, quantity int) (models.CartItem, error) {
	itemID, err := parseID(rawItemID, cartItemNotFound)
	if err != nil {
		return models.CartItem{}, err
	}
	if quantity < 1 {
		return models.CartItem{}, problem.Validation("quantity must be at least 1")
	}

	item, err := s.cart.UpdateQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		return models.CartItem{}, storeFailure(err, cartItemNotFound)
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID primitive.ObjectID, rawItemID string) error {
	itemID, err := parseID(rawItemID, cartItemNotFound)
	if err != nil {
		return err
	}
	if err := s.cart.Delete(ctx, userID, itemID); err != nil {
		return storeFailure(err, cartItemNotFound)
	}
	return nil
}
