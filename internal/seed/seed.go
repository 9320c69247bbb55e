// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"devnest/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var postTypes = []string{
	models.PostTypeGeneral, models.PostTypeGeneral, models.PostTypeCode,
	models.PostTypeArticle, models.PostTypeFixing,
}

var categoryPool = []string{
	"go", "javascript", "python", "rust", "frontend", "backend", "devops",
	"databases", "linux", "cloud", "security", "testing", "career", "showcase",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("warning: could not clear all existing data, continuing anyway")
		}
	}

	//nolint:gosec // Weak randomness is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	if err := createFollows(db, r, users); err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}

	posts, err := createPosts(db, r, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createComments(db, r, users, posts); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	if err := createLikes(db, r, users, posts); err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	if err := createReports(db, r, users, posts); err != nil {
		return fmt.Errorf("failed to create reports: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("clearing existing data...")
	sql := `TRUNCATE TABLE post_reports, post_categories, comments, likes, notifications, posts, follows, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	users := make([]models.User, 0, count+1)

	// A deterministic admin account for dashboard access during development.
	admin := models.User{
		ExternalID: "seed-admin",
		Username:   "admin",
		Email:      "admin@devnest.local",
		FirstName:  "Admin",
		LastName:   "User",
		IsAdmin:    true,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error; err != nil {
		return nil, err
	}
	users = append(users, admin)

	for i := 0; i < count; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		username := fmt.Sprintf("%s%s%d", strings.ToLower(first), strings.ToLower(last), gofakeit.Number(1, 999))

		user := models.User{
			ExternalID: uuid.NewString(),
			Username:   username,
			Email:      fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			FirstName:  first,
			LastName:   last,
			Bio:        gofakeit.Sentence(10),
			AvatarURL:  fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// createFollows gives every account a handful of random follows so seeded
// feeds have a social component.
func createFollows(db *gorm.DB, r *rand.Rand, users []models.User) error {
	if len(users) < 2 {
		return nil
	}
	for _, u := range users {
		n := r.Intn(6) + 2
		for i := 0; i < n; i++ {
			target := users[r.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			follow := models.Follow{FollowerID: u.ID, FolloweeID: target.ID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func createPosts(db *gorm.DB, r *rand.Rand, users []models.User, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		postType := postTypes[r.Intn(len(postTypes))]

		post := models.Post{
			UserID:     author.ID,
			Content:    gofakeit.Paragraph(1, 3, 12, " "),
			Type:       postType,
			Categories: randomCategories(r),
			CreatedAt:  gofakeit.DateRange(time.Now().AddDate(0, 0, -45), time.Now()),
		}
		if postType == models.PostTypeFixing {
			price := float64(gofakeit.Number(5, 500))
			post.Price = &price
		}
		if r.Intn(4) == 0 {
			post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%d/800/600", gofakeit.Number(1, 100000))
		}

		if err := db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func randomCategories(r *rand.Rand) []models.PostCategory {
	n := r.Intn(3) + 1
	seen := make(map[string]bool, n)
	categories := make([]models.PostCategory, 0, n)
	for len(categories) < n {
		name := categoryPool[r.Intn(len(categoryPool))]
		if seen[name] {
			continue
		}
		seen[name] = true
		categories = append(categories, models.PostCategory{Name: name})
	}
	return categories
}

func createComments(db *gorm.DB, r *rand.Rand, users []models.User, posts []models.Post) error {
	for _, p := range posts {
		n := r.Intn(4)
		for i := 0; i < n; i++ {
			comment := models.Comment{
				PostID:  p.ID,
				UserID:  users[r.Intn(len(users))].ID,
				Content: gofakeit.Sentence(8),
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func createLikes(db *gorm.DB, r *rand.Rand, users []models.User, posts []models.Post) error {
	for _, p := range posts {
		n := r.Intn(len(users)/2 + 1)
		for i := 0; i < n; i++ {
			like := models.Like{
				UserID: users[r.Intn(len(users))].ID,
				PostID: p.ID,
			}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// createReports flags a small fraction of posts so the admin dashboard's
// reported list is populated.
func createReports(db *gorm.DB, r *rand.Rand, users []models.User, posts []models.Post) error {
	for _, p := range posts {
		if r.Intn(10) != 0 {
			continue
		}
		reporter := users[r.Intn(len(users))]
		if reporter.ID == p.UserID {
			continue
		}
		report := models.PostReport{
			PostID: p.ID,
			UserID: reporter.ID,
			Reason: gofakeit.RandomString([]string{"spam", "offensive content", "misleading", "duplicate"}),
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&report).Error; err != nil {
			return err
		}
	}
	return nil
}
