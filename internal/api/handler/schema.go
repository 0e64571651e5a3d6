package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the envelope for operations that return no resource.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=SELLER BUYER"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// --- Products ---

type createProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
}

// updateProductRequest carries only the mutable fields; description, owner,
// and id cannot be changed once a product exists.
type updateProductRequest struct {
	Name  string  `json:"name"  validate:"required"`
	Price float64 `json:"price" validate:"required,gt=0"`
}
