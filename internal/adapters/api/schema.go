package api

import (
	"encoding/json"
	"time"

	"github.com/blogware/blogctl/internal/domain"
)

// wireID accepts either a JSON string or number; the server is not
// consistent about which it sends for post identifiers.
type wireID string

func (w *wireID) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*w = wireID(asString)
		return nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return err
	}
	*w = wireID(asNumber.String())
	return nil
}

type wireUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

func (w wireUser) toDomain() domain.User {
	return domain.User{
		ID:        domain.UserID(w.ID),
		Email:     w.Email,
		Name:      w.Name,
		AvatarURL: w.AvatarURL,
	}
}

type wireAuthor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type wirePost struct {
	ID                 wireID      `json:"id"`
	Title              string      `json:"title"`
	Content            string      `json:"content"`
	Author             *wireAuthor `json:"author"`
	Date               string      `json:"date"`
	Categories         []string    `json:"categories"`
	Likes              int         `json:"likes"`
	CommentCount       int         `json:"commentCount"`
	LikedByCurrentUser bool        `json:"likedByCurrentUser"`
	CreatedAt          string      `json:"createdAt"`
	UpdatedAt          string      `json:"updatedAt"`
}

func (w wirePost) toDomain() domain.Post {
	post := domain.Post{
		ID:                 domain.PostID(w.ID),
		Title:              w.Title,
		Content:            w.Content,
		Date:               w.Date,
		Categories:         w.Categories,
		Likes:              w.Likes,
		CommentCount:       w.CommentCount,
		LikedByCurrentUser: w.LikedByCurrentUser,
		CreatedAt:          parseTime(w.CreatedAt),
		UpdatedAt:          parseTime(w.UpdatedAt),
	}

	// Categories are always a slice, never nil, even when the server
	// omits the field.
	if post.Categories == nil {
		post.Categories = []string{}
	}

	if w.Author != nil {
		post.Author = &domain.PostAuthor{
			ID:   domain.UserID(w.Author.ID),
			Name: w.Author.Name,
		}
	}

	return post
}

type wireCommentUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

type wireComment struct {
	ID        int64           `json:"id"`
	Content   string          `json:"content"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
	User      wireCommentUser `json:"user"`
}

func (w wireComment) toDomain() domain.Comment {
	return domain.Comment{
		ID:        w.ID,
		Content:   w.Content,
		CreatedAt: parseTime(w.CreatedAt),
		UpdatedAt: parseTime(w.UpdatedAt),
		User: domain.CommentAuthor{
			ID:        domain.UserID(w.User.ID),
			Name:      w.User.Name,
			AvatarURL: w.User.AvatarURL,
		},
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}
