package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"hotelchain/internal/models"
	"hotelchain/internal/pricing"
	"hotelchain/internal/repository"
	"hotelchain/pkg/auth"
	"hotelchain/pkg/config"
	"hotelchain/pkg/logger"
	"hotelchain/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repos := seedRepos{
		users:    repository.NewUserRepository(db, appLogger),
		hotels:   repository.NewHotelRepository(db, appLogger),
		bookings: repository.NewBookingRepository(db, appLogger),
		pricing:  repository.NewPricingRepository(db, appLogger),
	}

	logger.Info("Starting database seeding...")

	seedDir := filepath.Join("cmd", "seed")
	fixtureFile := filepath.Join(seedDir, "fixtures.json")
	cacheFile := filepath.Join(seedDir, ".seed_cache.json")
	if err := seedFromFixtures(ctx, fixtureFile, cacheFile, repos, appLogger); err != nil {
		logger.Fatal("Failed to seed database", zap.Error(err))
	}

	logger.Info("Database seeding completed successfully!")
}

type seedRepos struct {
	users    *repository.UserRepository
	hotels   *repository.HotelRepository
	bookings *repository.BookingRepository
	pricing  *repository.PricingRepository
}

// SeededFile records a fixture file that was loaded into the database
type SeededFile struct {
	FilePath string    `json:"file_path"`
	FileHash string    `json:"file_hash"`
	SeededAt time.Time `json:"seeded_at"`
}

// CacheData stores information about seeded fixture files
type CacheData struct {
	SeededFiles map[string]SeededFile `json:"seeded_files"` // key: file path
}

type fixtureUser struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type fixtureHotel struct {
	Name          string            `json:"name"`
	City          string            `json:"city"`
	State         string            `json:"state"`
	Rating        float64           `json:"rating"`
	Amenities     []string          `json:"amenities"`
	Images        []string          `json:"images"`
	RoomTypes     []models.RoomType `json:"room_types"`
	TotalBookings int               `json:"total_bookings"`
	Season        pricing.Season    `json:"season"`
	SeasonFactor  float64           `json:"season_multiplier"`
	Occupancy     float64           `json:"occupancy_rate"`
}

type fixtureBooking struct {
	UserEmail   string               `json:"user_email"`
	HotelName   string               `json:"hotel_name"`
	RoomType    string               `json:"room_type"`
	Status      models.BookingStatus `json:"status"`
	TotalAmount float64              `json:"total_amount"`
	CheckIn     string               `json:"check_in"`
	Nights      int                  `json:"nights"`
}

type fixtures struct {
	Users    []fixtureUser    `json:"users"`
	Hotels   []fixtureHotel   `json:"hotels"`
	Bookings []fixtureBooking `json:"bookings"`
}

// loadCache loads the cache of seeded files
func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		SeededFiles: make(map[string]SeededFile),
	}

	if _, err := os.Stat(cacheFile); os.IsNotExist(err) {
		return cache, nil
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}

	return cache, nil
}

// saveCache saves the cache of seeded files
func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// calculateFileHash calculates MD5 hash of a file
func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// seedFromFixtures loads users, hotels, bookings and one pricing record per
// room type. An unchanged fixture file is not seeded twice.
func seedFromFixtures(ctx context.Context, fixtureFile, cacheFile string, repos seedRepos, appLogger *zap.Logger) error {
	now := time.Now()

	cache, err := loadCache(cacheFile)
	if err != nil {
		appLogger.Warn("Failed to load cache, will seed anyway", zap.Error(err))
		cache = &CacheData{SeededFiles: make(map[string]SeededFile)}
	}

	fileHash, err := calculateFileHash(fixtureFile)
	if err != nil {
		return err
	}
	if cached, exists := cache.SeededFiles[fixtureFile]; exists && cached.FileHash == fileHash {
		appLogger.Info("Fixtures already seeded, skipping",
			zap.String("path", fixtureFile),
			zap.Time("seeded_at", cached.SeededAt),
		)
		return nil
	}

	data, err := os.ReadFile(fixtureFile)
	if err != nil {
		return fmt.Errorf("failed to read fixtures: %w", err)
	}
	var fx fixtures
	if err := json.Unmarshal(data, &fx); err != nil {
		return fmt.Errorf("failed to parse fixtures: %w", err)
	}

	// Users
	userIDs := make(map[string]uuid.UUID, len(fx.Users))
	for _, u := range fx.Users {
		hashed, err := auth.HashPassword(u.Password)
		if err != nil {
			return err
		}
		user := &models.User{
			ID:        uuid.New(),
			Username:  u.Username,
			Email:     u.Email,
			Password:  hashed,
			Role:      u.Role,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repos.users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		userIDs[u.Email] = user.ID
	}

	// Hotels and their pricing records
	hotelIDs := make(map[string]uuid.UUID, len(fx.Hotels))
	for _, h := range fx.Hotels {
		hotel := &models.Hotel{
			ID:            uuid.New(),
			Name:          h.Name,
			City:          h.City,
			State:         h.State,
			Rating:        h.Rating,
			Amenities:     h.Amenities,
			Images:        h.Images,
			RoomTypes:     h.RoomTypes,
			TotalBookings: h.TotalBookings,
			Status:        models.HotelStatusActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repos.hotels.Create(ctx, hotel); err != nil {
			return fmt.Errorf("failed to create hotel %s: %w", h.Name, err)
		}
		hotelIDs[h.Name] = hotel.ID

		for _, rt := range h.RoomTypes {
			if err := repos.pricing.Create(ctx, pricingRecord(hotel.ID, rt, h, now)); err != nil {
				return fmt.Errorf("failed to create pricing for %s/%s: %w", h.Name, rt.Type, err)
			}
		}
	}

	// Bookings
	bookings := make([]*models.Booking, 0, len(fx.Bookings))
	for _, b := range fx.Bookings {
		userID, ok := userIDs[b.UserEmail]
		if !ok {
			appLogger.Warn("Booking references unknown user, skipping", zap.String("email", b.UserEmail))
			continue
		}
		hotelID, ok := hotelIDs[b.HotelName]
		if !ok {
			appLogger.Warn("Booking references unknown hotel, skipping", zap.String("hotel", b.HotelName))
			continue
		}
		checkIn, err := time.Parse("2006-01-02", b.CheckIn)
		if err != nil {
			return fmt.Errorf("invalid check_in %q: %w", b.CheckIn, err)
		}
		bookings = append(bookings, &models.Booking{
			ID:          uuid.New(),
			UserID:      userID,
			HotelID:     hotelID,
			RoomType:    b.RoomType,
			Status:      b.Status,
			TotalAmount: b.TotalAmount,
			CheckIn:     checkIn,
			CheckOut:    checkIn.AddDate(0, 0, max(1, b.Nights)),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if err := repos.bookings.CreateBatch(ctx, bookings); err != nil {
		return fmt.Errorf("failed to create bookings: %w", err)
	}

	appLogger.Info("Fixtures seeded",
		zap.Int("users", len(userIDs)),
		zap.Int("hotels", len(hotelIDs)),
		zap.Int("bookings", len(bookings)),
	)

	cache.SeededFiles[fixtureFile] = SeededFile{
		FilePath: fixtureFile,
		FileHash: fileHash,
		SeededAt: now,
	}
	if err := saveCache(cacheFile, cache); err != nil {
		appLogger.Warn("Failed to save cache", zap.Error(err))
	}

	return nil
}

func pricingRecord(hotelID uuid.UUID, rt models.RoomType, h fixtureHotel, now time.Time) *models.DynamicPricing {
	c := pricing.DefaultContext(rt.Price)
	c.Seasonal.Season = h.Season
	if h.SeasonFactor > 0 {
		c.Seasonal.SeasonMultiplier = h.SeasonFactor
	}
	c.Demand.OccupancyRate = h.Occupancy
	c.Demand.MarketDemand = pricing.ComputeMarketDemand(c.Demand)

	return &models.DynamicPricing{
		ID:        uuid.New(),
		HotelID:   hotelID,
		RoomType:  rt.Type,
		Context:   c,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
