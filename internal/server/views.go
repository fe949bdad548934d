package server

import (
	"strconv"
	"time"

	"quill/internal/models"
)

// Identifiers cross the wire as opaque strings and timestamps as fixed-format
// ISO-8601; the store's native types never leak into responses.

// CreatorView is the resolved owner embedded in a post response.
type CreatorView struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// PostView is the response shape of a single post.
type PostView struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	ImageURL  string       `json:"imageUrl"`
	Creator   *CreatorView `json:"creator,omitempty"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}

// UserView is the response shape of a user profile. The password hash never
// appears here.
type UserView struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	Posts     []PostView `json:"posts"`
	CreatedAt string     `json:"createdAt"`
	UpdatedAt string     `json:"updatedAt"`
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toCreatorView(user *models.User) *CreatorView {
	if user == nil || user.ID == 0 {
		return nil
	}
	return &CreatorView{
		ID:     formatID(user.ID),
		Email:  user.Email,
		Name:   user.Name,
		Status: user.Status,
	}
}

func toPostView(post *models.Post) PostView {
	return PostView{
		ID:        formatID(post.ID),
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		Creator:   toCreatorView(&post.Creator),
		CreatedAt: formatTime(post.CreatedAt),
		UpdatedAt: formatTime(post.UpdatedAt),
	}
}

func toPostViews(posts []*models.Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, toPostView(post))
	}
	return views
}

func toUserView(user *models.User) UserView {
	posts := make([]PostView, 0, len(user.Posts))
	for i := range user.Posts {
		posts = append(posts, toPostView(&user.Posts[i]))
	}
	return UserView{
		ID:        formatID(user.ID),
		Email:     user.Email,
		Name:      user.Name,
		Status:    user.Status,
		Posts:     posts,
		CreatedAt: formatTime(user.CreatedAt),
		UpdatedAt: formatTime(user.UpdatedAt),
	}
}
