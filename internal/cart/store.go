package cart

import "sync"

// Item is a cart line: a product snapshot plus a quantity and the unit
// price locked in when the product was first added.
type Item struct {
	Product   Product `json:"product"`
	Quantity  int64   `json:"quantity"`
	UnitPrice int64   `json:"unitPrice"`
}

// Subtotal returns the line total in minor units.
func (i Item) Subtotal() int64 {
	return i.UnitPrice * i.Quantity
}

// Store is the in-memory cart. Items keep insertion order; re-adding a
// product bumps its quantity in place without reordering. The unit price is
// resolved once, when the product first enters the cart, and never changes
// for the life of the line.
//
// All methods are safe for concurrent use. Observers are notified while the
// lock is held, so they must return quickly and must not call back into the
// store.
type Store struct {
	mu        sync.Mutex
	itemsByID map[string]*Item
	itemOrder []string
	observer  Observer
}

// NewStore creates an empty cart. A nil observer disables notifications.
func NewStore(observer Observer) *Store {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Store{
		itemsByID: make(map[string]*Item),
		observer:  observer,
	}
}

// Add puts one unit of the product into the cart. If the product is already
// present its quantity goes up by one; its unit price stays whatever was
// resolved on first add.
func (s *Store) Add(product Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		s.observer.Notify(Event{Op: OpReject, Reason: "product has no id"})
		return ErrInvalidProduct
	}

	item, ok := s.itemsByID[product.ID]
	if !ok {
		item = &Item{
			Product:   product,
			Quantity:  0,
			UnitPrice: product.UnitPrice(),
		}
		s.itemsByID[product.ID] = item
		s.itemOrder = append(s.itemOrder, product.ID)
	}
	item.Quantity++

	s.observer.Notify(Event{
		Op:        OpAdd,
		ProductID: product.ID,
		Quantity:  item.Quantity,
		Total:     s.totalLocked(),
		Size:      len(s.itemOrder),
	})
	return nil
}

// Remove drops the product's line from the cart entirely, whatever its
// quantity. Removal is idempotent: an absent product is a silent no-op.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.itemsByID[productID]; !ok {
		return
	}
	s.deleteLocked(productID)

	s.observer.Notify(Event{
		Op:        OpRemove,
		ProductID: productID,
		Total:     s.totalLocked(),
		Size:      len(s.itemOrder),
	})
}

// UpdateQuantity adjusts the product's quantity by the signed delta. This
// is the only way a line's quantity changes after insertion. A resulting
// quantity of zero or less removes the line. Updating an absent product
// returns ErrItemNotFound.
func (s *Store) UpdateQuantity(productID string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.itemsByID[productID]
	if !ok {
		s.observer.Notify(Event{
			Op:        OpReject,
			ProductID: productID,
			Reason:    "item not in cart",
		})
		return ErrItemNotFound
	}

	quantity := item.Quantity + delta
	if quantity <= 0 {
		s.deleteLocked(productID)
		s.observer.Notify(Event{
			Op:        OpRemove,
			ProductID: productID,
			Total:     s.totalLocked(),
			Size:      len(s.itemOrder),
		})
		return nil
	}

	item.Quantity = quantity
	s.observer.Notify(Event{
		Op:        OpUpdate,
		ProductID: productID,
		Quantity:  quantity,
		Total:     s.totalLocked(),
		Size:      len(s.itemOrder),
	})
	return nil
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.itemOrder) == 0 {
		return
	}
	s.itemsByID = make(map[string]*Item)
	s.itemOrder = nil

	s.observer.Notify(Event{Op: OpClear})
}

// Items returns the cart lines in insertion order. The returned slice and
// its items are copies; mutating them does not affect the cart.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		if item, ok := s.itemsByID[id]; ok {
			items = append(items, *item)
		}
	}
	return items
}

// Total returns the cart total in minor units.
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

// Len returns the number of distinct lines in the cart.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.itemOrder)
}

func (s *Store) totalLocked() int64 {
	var total int64
	for _, item := range s.itemsByID {
		total += item.Subtotal()
	}
	return total
}

func (s *Store) deleteLocked(productID string) {
	delete(s.itemsByID, productID)
	for i, id := range s.itemOrder {
		if id == productID {
			s.itemOrder = append(s.itemOrder[:i], s.itemOrder[i+1:]...)
			break
		}
	}
}
