package domain

import "time"

type PostID string

type Post struct {
	ID                 PostID
	Title              string
	Content            string
	Author             *PostAuthor
	Date               string
	Categories         []string
	Likes              int
	CommentCount       int
	LikedByCurrentUser bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type PostAuthor struct {
	ID   UserID
	Name string
}

type Comment struct {
	ID        int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	User      CommentAuthor
}

type CommentAuthor struct {
	ID        UserID
	Name      string
	AvatarURL string
}
