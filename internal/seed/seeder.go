// Package seed fills the database with plausible development data:
// accounts, posts, reels, stories and chat threads across every content
// category.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/worldwide-social/worldwide/internal/logger"
	"github.com/worldwide-social/worldwide/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev seeds the development database with realistic data. The
// default password for every seeded account is "password123".
func (s *Seeder) SeedDev() error {
	users, err := s.seedUsers(12)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	posts, err := s.seedPosts(users, 60)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	if err := s.seedComments(users, posts, 120); err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	if err := s.seedReels(users, 30); err != nil {
		return fmt.Errorf("failed to seed reels: %w", err)
	}

	if err := s.seedStories(users); err != nil {
		return fmt.Errorf("failed to seed stories: %w", err)
	}

	if err := s.seedMessages(users, 80); err != nil {
		return fmt.Errorf("failed to seed messages: %w", err)
	}

	logger.Log.Info("Seeding complete",
		zap.Int("users", len(users)),
		zap.Int("posts", len(posts)))
	return nil
}

// Clean removes every row from the seeded tables
func (s *Seeder) Clean() error {
	for _, model := range []any{
		&models.ChatMessage{}, &models.StoryView{}, &models.Story{},
		&models.Comment{}, &models.Reel{}, &models.Post{},
		&models.Notification{}, &models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	logger.Log.Info("Seed data removed")
	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	var existing int64
	s.db.Model(&models.User{}).Count(&existing)
	if existing >= int64(count) {
		var users []models.User
		if err := s.db.Find(&users).Error; err != nil {
			return nil, err
		}
		logger.Log.Info("Found existing users, skipping creation", zap.Int("users", len(users)))
		return users, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashedStr := string(hashed)

	fonts := []models.ProfileFont{models.FontSpace, models.FontSyne, models.FontSerif, models.FontMono}

	var users []models.User
	for i := 0; i < count; i++ {
		username := gofakeit.Username()
		var clash models.User
		for s.db.Where("username = ?", username).First(&clash).Error == nil {
			username = gofakeit.Username()
		}

		user := models.User{
			ID:           uuid.New().String(),
			Username:     username,
			DisplayName:  gofakeit.Name(),
			AvatarURL:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
			Bio:          gofakeit.Sentence(8),
			Status:       gofakeit.Sentence(4),
			ProfileFont:  fonts[rand.Intn(len(fonts))],
			PasswordHash: &hashedStr,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedPosts(users []models.User, count int) ([]models.Post, error) {
	var posts []models.Post
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		post := models.Post{
			ID:        uuid.New().String(),
			UserID:    author.ID,
			Content:   gofakeit.Sentence(12),
			Category:  models.Categories[rand.Intn(len(models.Categories))],
			LikeCount: rand.Intn(500),
			CreatedAt: time.Now().Add(-time.Duration(rand.Intn(72)) * time.Hour),
		}
		if rand.Intn(2) == 0 {
			post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/600/400", post.ID[:8])
		}
		if rand.Intn(3) == 0 {
			post.Music = &models.MusicTrack{
				ID:     uuid.New().String(),
				Title:  gofakeit.Sentence(3),
				Artist: gofakeit.Name(),
			}
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)

		s.db.Model(&author).UpdateColumn("post_count", gorm.Expr("post_count + 1"))
	}
	return posts, nil
}

func (s *Seeder) seedComments(users []models.User, posts []models.Post, count int) error {
	var roots []models.Comment
	for i := 0; i < count; i++ {
		post := posts[rand.Intn(len(posts))]
		comment := models.Comment{
			ID:     uuid.New().String(),
			PostID: post.ID,
			UserID: users[rand.Intn(len(users))].ID,
			Text:   gofakeit.Sentence(10),
		}
		// A third of comments reply to an earlier one on the same post
		if len(roots) > 0 && rand.Intn(3) == 0 {
			parent := roots[rand.Intn(len(roots))]
			if parent.PostID == post.ID {
				comment.ParentID = &parent.ID
			}
		}
		if err := s.db.Create(&comment).Error; err != nil {
			return err
		}
		if comment.ParentID == nil {
			roots = append(roots, comment)
		}
		s.db.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1"))
	}
	return nil
}

func (s *Seeder) seedReels(users []models.User, count int) error {
	for i := 0; i < count; i++ {
		reel := models.Reel{
			ID:        uuid.New().String(),
			UserID:    users[rand.Intn(len(users))].ID,
			Caption:   gofakeit.Sentence(6),
			ThumbURL:  fmt.Sprintf("https://picsum.photos/seed/reel%d/405/720", i),
			Category:  models.Categories[rand.Intn(len(models.Categories))],
			LikeCount: rand.Intn(2000),
			CreatedAt: time.Now().Add(-time.Duration(rand.Intn(48)) * time.Hour),
		}
		if err := s.db.Create(&reel).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedStories(users []models.User) error {
	// Roughly half the roster has a live story
	for i, user := range users {
		if i%2 != 0 {
			continue
		}
		age := time.Duration(rand.Intn(20)) * time.Hour
		story := models.Story{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			ImageURL:  fmt.Sprintf("https://picsum.photos/seed/story%d/405/720", i),
			ViewCount: rand.Intn(100),
			CreatedAt: time.Now().Add(-age),
			ExpiresAt: time.Now().Add(models.StoryTTL - age),
		}
		if err := s.db.Create(&story).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedMessages(users []models.User, count int) error {
	if len(users) < 2 {
		return nil
	}
	for i := 0; i < count; i++ {
		a := users[rand.Intn(len(users))]
		b := users[rand.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		msg := models.ChatMessage{
			ID:          uuid.New().String(),
			SenderID:    a.ID,
			RecipientID: b.ID,
			Text:        gofakeit.Sentence(8),
			MediaType:   models.MessageText,
			CreatedAt:   time.Now().Add(-time.Duration(rand.Intn(1440)) * time.Minute),
		}
		if err := s.db.Create(&msg).Error; err != nil {
			return err
		}
	}
	return nil
}
