package dto

import (
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"Nebula_Vlog/internal/service"
	"time"
)

// AuthorInfo 是响应里简化的作者信息
type AuthorInfo struct {
	UserID      uint64 `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsVerified  bool   `json:"is_verified"`
}

// VideoStats 每次都从存储行数推导出的计数快照
type VideoStats struct {
	Likes    uint64 `json:"likes"`
	Views    uint64 `json:"views"`
	Comments uint64 `json:"comments"`
	Shares   uint64 `json:"shares"`
}

// FeedVideoResponse feed里的一条视频，计数和viewer的点赞状态都已就位
type FeedVideoResponse struct {
	ID        uint64      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Title     string      `json:"title"`
	VideoURL  string      `json:"video_url"`
	Author    *AuthorInfo `json:"author,omitempty"`
	Stats     VideoStats  `json:"stats"`
	UserLiked bool        `json:"user_liked"`
}

func toStats(s repository.VideoStats) VideoStats {
	return VideoStats{Likes: s.Likes, Views: s.Views, Comments: s.Comments, Shares: s.Shares}
}

func toAuthor(p *model.Profile) *AuthorInfo {
	if p == nil {
		return nil
	}
	return &AuthorInfo{
		UserID:      p.UserID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		IsVerified:  p.IsVerified,
	}
}

// ToFeedResponse 把service层的编排结果转成干净的API响应
func ToFeedResponse(feed *service.FeedData) []FeedVideoResponse {
	response := make([]FeedVideoResponse, 0, len(feed.Videos))
	for _, v := range feed.Videos {
		item := FeedVideoResponse{
			ID:        v.ID,
			CreatedAt: v.CreatedAt,
			Title:     v.Title,
			VideoURL:  v.VideoURL,
			Stats:     toStats(feed.Stats[v.ID]),
			UserLiked: feed.Liked[v.ID],
		}
		if v.UserID != nil {
			item.Author = toAuthor(feed.Authors[*v.UserID])
		}
		response = append(response, item)
	}
	return response
}

// ToStatsResponse 批量计数刷新的响应：video_id -> 计数快照 + user_liked
type VideoStatsEntry struct {
	Stats     VideoStats `json:"stats"`
	UserLiked bool       `json:"user_liked"`
}

func ToStatsResponse(stats map[uint64]repository.VideoStats, liked map[uint64]bool) map[uint64]VideoStatsEntry {
	response := make(map[uint64]VideoStatsEntry, len(stats))
	for id, s := range stats {
		response[id] = VideoStatsEntry{Stats: toStats(s), UserLiked: liked[id]}
	}
	return response
}

// AdminVideoResponse 管理面板里的一条视频
type AdminVideoResponse struct {
	ID        uint64     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Title     string     `json:"title"`
	VideoURL  string     `json:"video_url"`
	Stats     VideoStats `json:"stats"`
}

func ToAdminVideoResponses(list *service.AdminVideoList) []AdminVideoResponse {
	response := make([]AdminVideoResponse, 0, len(list.Videos))
	for _, v := range list.Videos {
		response = append(response, AdminVideoResponse{
			ID:        v.ID,
			CreatedAt: v.CreatedAt,
			Title:     v.Title,
			VideoURL:  v.VideoURL,
			Stats:     toStats(list.Stats[v.ID]),
		})
	}
	return response
}
