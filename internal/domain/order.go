package domain

// OrderStatus is the lifecycle status reported by the backend order API.
type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "PLACED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// StepState is the display state of one tracking step.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepPending   StepState = "pending"
)

type OrderStep struct {
	Status OrderStatus `json:"status"`
	Label  string      `json:"label"`
	State  StepState   `json:"state"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price,omitempty"`
}

// Order is the subset of the backend order resource the storefront reads.
type Order struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"`
	TotalAmount float64     `json:"totalAmount"`
	Items       []OrderItem `json:"items,omitempty"`
	CreatedAt   string      `json:"createdAt,omitempty"`
}

type CheckoutRequest struct {
	Items           []CheckoutLine `json:"items"`
	ShippingAddress string         `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
}

// Tracking is the display-ready projection of an order's status.
type Tracking struct {
	OrderID   string      `json:"order_id"`
	Status    string      `json:"status"`
	Cancelled bool        `json:"cancelled"`
	Steps     []OrderStep `json:"steps"`
}
