package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-bar/internal/common"
	"github.com/noah-isme/backend-bar/internal/repo"
)

// ErrNotFound indicates the requested cart could not be located.
var ErrNotFound = errors.New("cart not found")

// Line is one drink in an open cart. The unit price is captured when the
// line is added; the ledger gets the same snapshot at checkout.
type Line struct {
	DrinkID    int64   `json:"drinkId"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unitPrice"`
	Quantity   int32   `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

// Cart is an open order accumulated before checkout, addressed by id instead
// of hiding in an implicit server-side session.
type Cart struct {
	ID        string    `json:"id"`
	Lines     []Line    `json:"lines"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Total sums all line totals.
func (c Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.TotalPrice
	}
	return total
}

// DrinkSource resolves drinks so cart lines can capture the live price.
type DrinkSource interface {
	GetDrink(ctx context.Context, id int64) (repo.Drink, error)
}

// Service stores carts as JSON blobs in Redis with a rolling TTL.
type Service struct {
	R      *redis.Client
	Drinks DrinkSource
	TTL    time.Duration
	Now    func() time.Time
}

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 24 * time.Hour
	}
	return s.TTL
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func cartKey(id string) string {
	return "cart:" + id
}

// Create opens an empty cart and returns it.
func (s *Service) Create(ctx context.Context) (Cart, error) {
	if s == nil || s.R == nil {
		return Cart{}, errors.New("cart service not configured")
	}
	now := s.now()
	cart := Cart{ID: uuid.NewString(), Lines: []Line{}, CreatedAt: now, UpdatedAt: now}
	if err := s.save(ctx, cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// Get loads a cart by id.
func (s *Service) Get(ctx context.Context, id string) (Cart, error) {
	if s == nil || s.R == nil {
		return Cart{}, errors.New("cart service not configured")
	}
	data, err := s.R.Get(ctx, cartKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Cart{}, ErrNotFound
		}
		return Cart{}, common.StorageError(err)
	}
	var cart Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return Cart{}, common.StorageError(err)
	}
	return cart, nil
}

// AddItem appends a drink to the cart, merging into an existing line for the
// same drink. The line captures the drink's current price.
func (s *Service) AddItem(ctx context.Context, cartID string, drinkID int64, quantity int32) (Cart, error) {
	if quantity <= 0 {
		return Cart{}, common.ValidationError("quantity must be positive", nil)
	}
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	drink, err := s.Drinks.GetDrink(ctx, drinkID)
	if err != nil {
		return Cart{}, common.NotFoundError("drink not found")
	}

	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].DrinkID == drinkID {
			cart.Lines[i].Quantity += quantity
			cart.Lines[i].TotalPrice = float64(cart.Lines[i].Quantity) * cart.Lines[i].UnitPrice
			merged = true
			break
		}
	}
	if !merged {
		cart.Lines = append(cart.Lines, Line{
			DrinkID:    drink.ID,
			Name:       drink.Name,
			UnitPrice:  drink.CurrentPrice,
			Quantity:   quantity,
			TotalPrice: float64(quantity) * drink.CurrentPrice,
		})
	}
	cart.UpdatedAt = s.now()
	if err := s.save(ctx, cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// UpdateItem sets the quantity of an existing line.
func (s *Service) UpdateItem(ctx context.Context, cartID string, drinkID int64, quantity int32) (Cart, error) {
	if quantity <= 0 {
		return Cart{}, common.ValidationError("quantity must be positive", nil)
	}
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	found := false
	for i := range cart.Lines {
		if cart.Lines[i].DrinkID == drinkID {
			cart.Lines[i].Quantity = quantity
			cart.Lines[i].TotalPrice = float64(quantity) * cart.Lines[i].UnitPrice
			found = true
			break
		}
	}
	if !found {
		return Cart{}, common.NotFoundError("cart line not found")
	}
	cart.UpdatedAt = s.now()
	if err := s.save(ctx, cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// RemoveItem drops a line from the cart.
func (s *Service) RemoveItem(ctx context.Context, cartID string, drinkID int64) (Cart, error) {
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	lines := cart.Lines[:0]
	found := false
	for _, line := range cart.Lines {
		if line.DrinkID == drinkID {
			found = true
			continue
		}
		lines = append(lines, line)
	}
	if !found {
		return Cart{}, common.NotFoundError("cart line not found")
	}
	cart.Lines = lines
	cart.UpdatedAt = s.now()
	if err := s.save(ctx, cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// Delete removes the cart entirely; used after checkout commits.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s == nil || s.R == nil {
		return errors.New("cart service not configured")
	}
	return s.R.Del(ctx, cartKey(id)).Err()
}

func (s *Service) save(ctx context.Context, cart Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return common.StorageError(err)
	}
	if err := s.R.Set(ctx, cartKey(cart.ID), data, s.ttl()).Err(); err != nil {
		return common.StorageError(err)
	}
	return nil
}
