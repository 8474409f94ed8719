package payload

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=1"`
}

type LoginResponse struct {
	Admin AdminResponse `json:"admin"`
	Token string        `json:"token"`
}

type AdminResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
