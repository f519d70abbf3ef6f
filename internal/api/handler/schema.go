package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role"     validate:"required,oneof=admin manager user"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type registerResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

// sessionUser is the identity/role pair the client keeps for display.
type sessionUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  sessionUser `json:"user"`
}

// --- Products ---

type createProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// updateProductRequest uses pointers so absent fields stay untouched.
type updateProductRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"       validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock"       validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

type productResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Price       float64    `json:"price"`
	Stock       int        `json:"stock"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// --- Orders ---

type lineItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"   validate:"required,min=1"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

// createOrderRequest has no purchaser field; the purchaser comes from the token.
type createOrderRequest struct {
	Items []lineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type lineItemResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price,omitempty"`
}

type orderResponse struct {
	ID        string             `json:"id"`
	Purchaser string             `json:"purchaser"`
	Items     []lineItemResponse `json:"items"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}
