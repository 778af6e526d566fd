package request

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=60"`
	LastName  string `json:"last_name" validate:"required,min=1,max=60"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Age       int    `json:"age" validate:"required,gte=13,lte=120"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
