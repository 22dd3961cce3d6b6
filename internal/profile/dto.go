// AngelaMos | 2026
// dto.go

package profile

import (
	"time"
)

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=255"`
	Bio         *string `json:"bio" validate:"omitempty,max=1000"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url,max=500"`
	Website     *string `json:"website" validate:"omitempty,url,max=500"`
}

type CreateSocialLinkRequest struct {
	Platform string `json:"platform" validate:"required,oneof=twitter instagram telegram github linkedin youtube"`
	URL      string `json:"url" validate:"required,url,max=500"`
}

type SocialLinkResponse struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type ProfileResponse struct {
	Username    string               `json:"username"`
	DisplayName string               `json:"display_name"`
	Bio         string               `json:"bio"`
	AvatarURL   string               `json:"avatar_url"`
	Website     string               `json:"website"`
	SocialLinks []SocialLinkResponse `json:"social_links"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func ToSocialLinkResponse(l *SocialLink) SocialLinkResponse {
	return SocialLinkResponse{ID: l.ID, Platform: l.Platform, URL: l.URL}
}
