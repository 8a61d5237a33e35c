package dto

// UpdateOrderStatusRequest is the admin lifecycle transition payload.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateVerificationRequest is the admin verification review payload.
type UpdateVerificationRequest struct {
	Status string `json:"status" binding:"required"`
}
