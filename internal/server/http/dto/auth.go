package dto

// AddressPayload describes a postal address.
type AddressPayload struct {
	Country    string `json:"country" binding:"required"`
	City       string `json:"city" binding:"required"`
	Street     string `json:"street" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
}

// RegisterRequest describes registration payload.
type RegisterRequest struct {
	Login           string          `json:"login" binding:"required"`
	Password        string          `json:"password" binding:"required"`
	ShippingAddress *AddressPayload `json:"shippingAddress"`
}

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned after successful registration or login.
type TokenResponse struct {
	Token string `json:"token"`
}
