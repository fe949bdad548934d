// Package seed creates demo data for the application database. It is intended
// for development only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options tunes a seeding run.
type Options struct {
	Users        int
	PostsPerUser int
	// MaxDays is how far back generated post timestamps spread.
	MaxDays int
	// SkipBcrypt replaces real password hashing with a fixed marker. Makes
	// large runs fast; the resulting users cannot log in.
	SkipBcrypt bool
}

// Seeder populates the database with generated users and posts.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.Users <= 0 {
		opts.Users = 10
	}
	if opts.PostsPerUser <= 0 {
		opts.PostsPerUser = 3
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		opts: opts,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes every post and user. Posts go first so the creator foreign
// key never dangles.
func (s *Seeder) ClearAll() error {
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	return nil
}

// Run seeds users and posts and returns how many of each were created.
func (s *Seeder) Run() (users int, posts int, err error) {
	for i := 0; i < s.opts.Users; i++ {
		user, err := s.createUser()
		if err != nil {
			return users, posts, err
		}
		users++

		for j := 0; j < s.opts.PostsPerUser; j++ {
			if err := s.createPost(user); err != nil {
				return users, posts, err
			}
			posts++
		}
	}
	return users, posts, nil
}

func (s *Seeder) createUser() (*models.User, error) {
	user := &models.User{
		Email:  gofakeit.Email(),
		Name:   gofakeit.Name(),
		Status: gofakeit.Sentence(6),
	}

	if s.opts.SkipBcrypt {
		user.Password = "not-a-real-hash"
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to seed user: %w", err)
	}
	return user, nil
}

func (s *Seeder) createPost(user *models.User) error {
	post := &models.Post{
		Title:     gofakeit.Sentence(5),
		Content:   gofakeit.Paragraph(1, 3, 5, "\n"),
		ImageURL:  fmt.Sprintf("images/%s.png", gofakeit.UUID()),
		CreatorID: user.ID,
		CreatedAt: s.spreadTimestamp(),
	}
	if err := s.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to seed post: %w", err)
	}
	return nil
}

// spreadTimestamp backdates a post so listings page through a realistic
// timeline instead of one burst.
func (s *Seeder) spreadTimestamp() time.Time {
	daysBack := s.rand.Intn(s.opts.MaxDays)
	hoursBack := s.rand.Intn(24)
	minsBack := s.rand.Intn(60)
	return time.Now().
		Add(-time.Duration(daysBack) * 24 * time.Hour).
		Add(-time.Duration(hoursBack) * time.Hour).
		Add(-time.Duration(minsBack) * time.Minute)
}
