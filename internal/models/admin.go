package models

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type TestEmailRequest struct {
	To string `json:"to" validate:"required,email"`
}

type SignImageRequest struct {
	ParamsToSign map[string]string `json:"params_to_sign" validate:"required"`
}

type SignImageResponse struct {
	Signature string `json:"signature"`
}
