package server

import (
	"encoding/json"

	"quill/internal/auth"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostArgs struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

type postsArgs struct {
	Page int `json:"page"`
}

type postArgs struct {
	ID string `json:"id"`
}

type updatePostArgs struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// PostsResponse is one page of posts plus the unfiltered collection total.
type PostsResponse struct {
	Posts      []PostView `json:"posts"`
	TotalPosts int64      `json:"totalPosts"`
}

func (s *Server) opCreatePost(c *fiber.Ctx, ident auth.Identity, args json.RawMessage) error {
	var in createPostArgs
	if err := decodeArgs(args, &in); err != nil {
		return err
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		CreatorID: ident.UserID,
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toPostView(post))
}

func (s *Server) opPosts(c *fiber.Ctx, _ auth.Identity, args json.RawMessage) error {
	var in postsArgs
	if err := decodeArgs(args, &in); err != nil {
		return err
	}

	posts, total, err := s.postService.ListPage(c.UserContext(), in.Page)
	if err != nil {
		return err
	}

	return c.JSON(PostsResponse{
		Posts:      toPostViews(posts),
		TotalPosts: total,
	})
}

func (s *Server) opPost(c *fiber.Ctx, _ auth.Identity, args json.RawMessage) error {
	var in postArgs
	if err := decodeArgs(args, &in); err != nil {
		return err
	}

	id, err := parsePostID(in.ID)
	if err != nil {
		return err
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(toPostView(post))
}

func (s *Server) opUpdatePost(c *fiber.Ctx, ident auth.Identity, args json.RawMessage) error {
	var in updatePostArgs
	if err := decodeArgs(args, &in); err != nil {
		return err
	}

	id, err := parsePostID(in.ID)
	if err != nil {
		return err
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:   ident.UserID,
		PostID:   id,
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(toPostView(post))
}

func (s *Server) opDeletePost(c *fiber.Ctx, ident auth.Identity, args json.RawMessage) error {
	var in postArgs
	if err := decodeArgs(args, &in); err != nil {
		return err
	}

	id, err := parsePostID(in.ID)
	if err != nil {
		return err
	}

	if err := s.postService.DeletePost(c.UserContext(), ident.UserID, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}
