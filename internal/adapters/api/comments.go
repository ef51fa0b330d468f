package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/blogware/blogctl/internal/domain"
)

type commentBody struct {
	Content string `json:"content"`
}

func (c *Client) ListComments(ctx context.Context, postID domain.PostID) ([]domain.Comment, error) {
	var wire []wireComment
	if err := c.getJSON(ctx, "/posts/"+url.PathEscape(string(postID))+"/comments", &wire); err != nil {
		return nil, fmt.Errorf("list comments for post %s: %w", postID, err)
	}

	comments := make([]domain.Comment, 0, len(wire))
	for _, entry := range wire {
		comments = append(comments, entry.toDomain())
	}

	return comments, nil
}

func (c *Client) AddComment(ctx context.Context, postID domain.PostID, content string) (domain.Comment, error) {
	var wire wireComment
	path := "/posts/" + url.PathEscape(string(postID)) + "/comments"
	if err := c.sendJSON(ctx, http.MethodPost, path, commentBody{Content: content}, &wire); err != nil {
		return domain.Comment{}, fmt.Errorf("add comment to post %s: %w", postID, err)
	}

	return wire.toDomain(), nil
}

func (c *Client) EditComment(ctx context.Context, commentID int64, content string) (domain.Comment, error) {
	var result struct {
		Comment wireComment `json:"comment"`
	}
	path := "/comments/" + strconv.FormatInt(commentID, 10)
	if err := c.sendJSON(ctx, http.MethodPut, path, commentBody{Content: content}, &result); err != nil {
		return domain.Comment{}, fmt.Errorf("edit comment %d: %w", commentID, err)
	}

	return result.Comment.toDomain(), nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/comments/"+strconv.FormatInt(commentID, 10), nil, "")
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}

	return nil
}
