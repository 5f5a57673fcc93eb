package dto

// CreateProductRequest is the body of POST /products.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=150"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	UserID      uint    `json:"userId" validate:"required,gt=0"`
	CategoryIDs []uint  `json:"categoryIds" validate:"required,min=1,unique,dive,gt=0"`
}

// UpdateProductRequest is the body of PUT /products/:id. The owner is not
// part of it; a product keeps the owner it was created with. Stock is kept
// when omitted.
type UpdateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=150"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,gte=0"`
	CategoryIDs []uint  `json:"categoryIds" validate:"required,min=1,unique,dive,gt=0"`
}

// PartialUpdateProductRequest is the body of PATCH /products/:id. A nil
// CategoryIDs keeps the current categories; an empty list is rejected.
type PartialUpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=3,max=150"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	CategoryIDs []uint   `json:"categoryIds,omitempty" validate:"omitempty,min=1,unique,dive,gt=0"`
}

// ProductResponse is the API view of a product with its owner and categories resolved.
type ProductResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       float64            `json:"price"`
	Stock       int                `json:"stock"`
	User        *UserSummary       `json:"user,omitempty"`
	Categories  []CategoryResponse `json:"categories"`
	CategoryIDs []uint             `json:"categoryIds"`
	UserID      uint               `json:"userId"`
	UserName    string             `json:"userName,omitempty"`
	UserEmail   string             `json:"userEmail,omitempty"`
	CreatedAt   string             `json:"createdAt"`
	UpdatedAt   string             `json:"updatedAt"`
}

// ProductFilter selects which repository query backs GET /products.
// At most one of OwnerID, OwnerName, CategoryID, CategoryName is honoured;
// MinPrice only applies together with CategoryID.
type ProductFilter struct {
	OwnerID      uint
	OwnerName    string
	CategoryID   uint
	CategoryName string
	MinPrice     *float64
}

// DeleteResponse confirms a hard delete.
type DeleteResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
	ID      uint   `json:"id"`
}
