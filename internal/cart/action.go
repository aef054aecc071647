package cart

import "fmt"

// ActionType names a cart mutation.
type ActionType string

const (
	ActionAddItem        ActionType = "ADD_ITEM"
	ActionUpdateQuantity ActionType = "UPDATE_QUANTITY"
	ActionRemoveItem     ActionType = "REMOVE_ITEM"
	ActionClearCart      ActionType = "CLEAR_CART"
)

// Action is the payload a presentation layer dispatches. Product is used by
// ADD_ITEM, ID by UPDATE_QUANTITY and REMOVE_ITEM.
type Action struct {
	Type     ActionType `json:"type"`
	Product  Product    `json:"product"`
	ID       string     `json:"id,omitempty"`
	Quantity int        `json:"quantity,omitempty"`
}

// AddItem builds an ADD_ITEM action for p.
func AddItem(p Product, quantity int) Action {
	return Action{Type: ActionAddItem, Product: p, Quantity: quantity}
}

// UpdateQuantity builds an UPDATE_QUANTITY action for the line id.
func UpdateQuantity(id string, quantity int) Action {
	return Action{Type: ActionUpdateQuantity, ID: id, Quantity: quantity}
}

// RemoveItem builds a REMOVE_ITEM action for the line id.
func RemoveItem(id string) Action {
	return Action{Type: ActionRemoveItem, ID: id}
}

// ClearCart builds a CLEAR_CART action.
func ClearCart() Action {
	return Action{Type: ActionClearCart}
}

// Dispatch applies a to the container. Unknown action types leave the cart
// unchanged and are logged.
func (c *Container) Dispatch(a Action) State {
	switch a.Type {
	case ActionAddItem:
		return c.AddItem(a.Product, a.Quantity)
	case ActionUpdateQuantity:
		return c.UpdateQuantity(a.ID, a.Quantity)
	case ActionRemoveItem:
		return c.RemoveItem(a.ID)
	case ActionClearCart:
		return c.Clear()
	default:
		c.logger.Warn().Str("action", string(a.Type)).Msg("cart: ignoring unknown action")
		return c.State()
	}
}

// String renders the action for logs, e.g. ADD_ITEM(steam-25, 2).
func (a Action) String() string {
	switch a.Type {
	case ActionAddItem:
		return fmt.Sprintf("%s(%s, %d)", a.Type, a.Product.ID, a.Quantity)
	case ActionUpdateQuantity:
		return fmt.Sprintf("%s(%s, %d)", a.Type, a.ID, a.Quantity)
	case ActionRemoveItem:
		return fmt.Sprintf("%s(%s)", a.Type, a.ID)
	default:
		return string(a.Type)
	}
}
