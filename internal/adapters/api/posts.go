package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/blogware/blogctl/internal/domain"
)

type PostInput struct {
	Title      string
	Content    string
	Date       string
	Categories []string
}

type LikeResult struct {
	Liked bool
	Likes int
}

type postBody struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Date       string   `json:"date,omitempty"`
	Categories []string `json:"categories"`
}

func (input PostInput) wire() postBody {
	categories := input.Categories
	if categories == nil {
		categories = []string{}
	}

	return postBody{
		Title:      input.Title,
		Content:    input.Content,
		Date:       input.Date,
		Categories: categories,
	}
}

func (c *Client) ListPosts(ctx context.Context) ([]domain.Post, error) {
	var wire []wirePost
	if err := c.getJSON(ctx, "/posts", &wire); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]domain.Post, 0, len(wire))
	for _, entry := range wire {
		posts = append(posts, entry.toDomain())
	}

	return posts, nil
}

func (c *Client) GetPost(ctx context.Context, id domain.PostID) (domain.Post, error) {
	var wire wirePost
	if err := c.getJSON(ctx, "/posts/"+url.PathEscape(string(id)), &wire); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return domain.Post{}, fmt.Errorf("get post %s: %w", id, domain.ErrPostNotFound)
		}
		return domain.Post{}, fmt.Errorf("get post %s: %w", id, err)
	}

	return wire.toDomain(), nil
}

func (c *Client) CreatePost(ctx context.Context, input PostInput) (domain.PostID, error) {
	var result struct {
		InsertedID wireID `json:"insertedId"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/posts", input.wire(), &result); err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}

	return domain.PostID(result.InsertedID), nil
}

func (c *Client) UpdatePost(ctx context.Context, id domain.PostID, input PostInput) (domain.Post, error) {
	var result struct {
		Post wirePost `json:"post"`
	}
	if err := c.sendJSON(ctx, http.MethodPut, "/posts/"+url.PathEscape(string(id)), input.wire(), &result); err != nil {
		return domain.Post{}, fmt.Errorf("update post %s: %w", id, err)
	}

	return result.Post.toDomain(), nil
}

func (c *Client) DeletePost(ctx context.Context, id domain.PostID) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/posts/"+url.PathEscape(string(id)), nil, "")
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}

	return nil
}

// ToggleLike flips the caller's like on a post; the server reports the new
// state and count.
func (c *Client) ToggleLike(ctx context.Context, id domain.PostID) (LikeResult, error) {
	var result struct {
		Liked bool `json:"liked"`
		Likes int  `json:"likes"`
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/posts/"+url.PathEscape(string(id))+"/like", nil, "")
	if err != nil {
		return LikeResult{}, err
	}
	if err := c.do(req, &result); err != nil {
		return LikeResult{}, fmt.Errorf("toggle like on post %s: %w", id, err)
	}

	return LikeResult{Liked: result.Liked, Likes: result.Likes}, nil
}
