// AngelaMos | 2026
// dto.go

package otp

type SendCodeRequest struct {
	Phone string `json:"phone" validate:"required,len=11"`
}

type RedeemCodeRequest struct {
	Phone string `json:"phone" validate:"required,len=11"`
	Code  string `json:"code"  validate:"required,len=6,numeric"`
}

type SendCodeResponse struct {
	Message string `json:"message"`
}
