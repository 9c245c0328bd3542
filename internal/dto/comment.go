package dto

import (
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/service"
	"time"
)

// ReplyResponse 二级回复的响应结构
type ReplyResponse struct {
	ID        uint64      `json:"id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	LikeCount uint64      `json:"like_count"`
	UserLiked bool        `json:"user_liked"`
	Author    *AuthorInfo `json:"author,omitempty"`
}

// CommentResponse 一级评论的响应结构，包含挂载好的回复列表
type CommentResponse struct {
	ID        uint64          `json:"id"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	LikeCount uint64          `json:"like_count"`
	UserLiked bool            `json:"user_liked"`
	Author    *AuthorInfo     `json:"author,omitempty"`
	Replies   []ReplyResponse `json:"replies"`
}

// ToCommentResponses 把service层编排好的评论树转成响应，
// 一级评论保持新在前，回复保持旧在前
func ToCommentResponses(thread *service.CommentThread) []CommentResponse {
	response := make([]CommentResponse, 0, len(thread.Parents))
	for _, pc := range thread.Parents {
		commentResp := CommentResponse{
			ID:        pc.ID,
			Content:   pc.Content,
			CreatedAt: pc.CreatedAt,
			LikeCount: thread.LikeCounts[pc.ID],
			UserLiked: thread.Liked[pc.ID],
			Author:    toAuthor(thread.Authors[pc.UserID]),
			Replies:   []ReplyResponse{},
		}
		for _, r := range thread.ReplyMap[pc.ID] {
			commentResp.Replies = append(commentResp.Replies, ReplyResponse{
				ID:        r.ID,
				Content:   r.Content,
				CreatedAt: r.CreatedAt,
				LikeCount: thread.LikeCounts[r.ID],
				UserLiked: thread.Liked[r.ID],
				Author:    toAuthor(thread.Authors[r.UserID]),
			})
		}
		response = append(response, commentResp)
	}
	return response
}

// ToSingleCommentResponse 新建评论后返回给前端的最小结构
func ToSingleCommentResponse(c *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Replies:   []ReplyResponse{},
	}
}
