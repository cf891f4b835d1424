package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-gallery-backend/api"
	"github.com/rpupo63/portfolio-gallery-backend/config"
	"github.com/rpupo63/portfolio-gallery-backend/database"
	"github.com/rpupo63/portfolio-gallery-backend/models"
	"github.com/rpupo63/portfolio-gallery-backend/session"
	"github.com/rpupo63/portfolio-gallery-backend/storage"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(c, "DB_HOST", "localhost"),
		config.GetString(c, "DB_USER", "postgres"),
		config.GetString(c, "DB_PASSWORD", ""),
		config.GetString(c, "DB_NAME", "portfolio"),
		config.GetString(c, "DB_PORT", "5432"),
		config.GetString(c, "DB_SSLMODE", "require"),
	)

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.Project{}, &models.Challenge{}); err != nil {
		fmt.Printf("Error running migrations: %v\n", err)
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	imageStore, err := storage.NewImageStore(
		config.GetString(c, "MINIO_ENDPOINT", "localhost:9000"),
		config.GetString(c, "MINIO_ACCESS_KEY", ""),
		config.GetString(c, "MINIO_SECRET_KEY", ""),
		config.GetString(c, "MINIO_BUCKET", "portfolio-images"),
		config.GetString(c, "PUBLIC_IMAGE_BASE_URL", ""),
		config.GetBool(c, "MINIO_SSL", false),
	)
	if err != nil {
		fmt.Printf("Error initializing image storage: %v\n", err)
		os.Exit(1)
	}

	markers := newMarkerStore(c)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, imageStore, markers)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// newMarkerStore picks the view-marker backend: Redis when configured so
// multiple instances share dedup state, otherwise an in-process store.
func newMarkerStore(c map[string]string) session.MarkerStore {
	ttl := time.Duration(config.GetInt(c, "VIEW_MARKER_TTL_HOURS", 24)) * time.Hour

	host := config.GetString(c, "REDIS_HOST", "")
	if host == "" {
		return session.NewMemoryStore(ttl)
	}

	store, err := session.NewRedisStore(host, config.GetString(c, "REDIS_PORT", "6379"), ttl)
	if err != nil {
		fmt.Printf("Warning: falling back to in-memory view markers: %v\n", err)
		return session.NewMemoryStore(ttl)
	}
	return store
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
