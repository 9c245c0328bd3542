package dto

import (
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/service"
)

// ProfileResponse 个人主页响应
type ProfileResponse struct {
	UserID      uint64 `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	CoverURL    string `json:"cover_url"`
	Bio         string `json:"bio"`
	IsVerified  bool   `json:"is_verified"`
	Followers   int64  `json:"followers"`
	Following   int64  `json:"following"`
	IsFollowing bool   `json:"is_following"`
	IsOwn       bool   `json:"is_own"`
}

func ToProfileResponse(view *service.ProfileView) ProfileResponse {
	p := view.Profile
	return ProfileResponse{
		UserID:      p.UserID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		CoverURL:    p.CoverURL,
		Bio:         p.Bio,
		IsVerified:  p.IsVerified,
		Followers:   view.Followers,
		Following:   view.Following,
		IsFollowing: view.IsFollowing,
		IsOwn:       view.IsOwn,
	}
}

// SearchProfileResponse 搜索结果里的一条用户
type SearchProfileResponse struct {
	UserID      uint64 `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsVerified  bool   `json:"is_verified"`
	IsFollowing bool   `json:"is_following"`
}

func ToSearchProfileResponses(profiles []model.Profile, following map[uint64]bool) []SearchProfileResponse {
	response := make([]SearchProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, SearchProfileResponse{
			UserID:      p.UserID,
			Username:    p.Username,
			DisplayName: p.DisplayName,
			AvatarURL:   p.AvatarURL,
			IsVerified:  p.IsVerified,
			IsFollowing: following[p.UserID],
		})
	}
	return response
}
