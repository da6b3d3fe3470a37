package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/database"
	"reviewhub/internal/api/models"
	"reviewhub/internal/config"
)

// Bulk-loads the CSV fixture set (category.csv, genre.csv, titles.csv,
// genre_title.csv, users.csv, review.csv, comments.csv) into the database.
// Reference data keeps its CSV ids; user rows get fresh UUIDs and reviews
// and comments are remapped through an id map.

func main() {
	log.Println("Starting CSV data load...")

	dataDir := "data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("✓ Successfully connected to database")

	err = db.Transaction(func(tx *gorm.DB) error {
		log.Println("\n=== Importing Categories ===")
		n, err := importCategories(tx, dataDir)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		log.Printf("✓ Imported %d categories", n)

		log.Println("\n=== Importing Genres ===")
		n, err = importGenres(tx, dataDir)
		if err != nil {
			return fmt.Errorf("genres: %w", err)
		}
		log.Printf("✓ Imported %d genres", n)

		log.Println("\n=== Importing Titles ===")
		n, err = importTitles(tx, dataDir)
		if err != nil {
			return fmt.Errorf("titles: %w", err)
		}
		log.Printf("✓ Imported %d titles", n)

		log.Println("\n=== Importing Title-Genre Links ===")
		n, err = importTitleGenres(tx, dataDir)
		if err != nil {
			return fmt.Errorf("genre_title: %w", err)
		}
		log.Printf("✓ Created %d title-genre links", n)

		log.Println("\n=== Importing Users ===")
		userIDMap, err := importUsers(tx, dataDir)
		if err != nil {
			return fmt.Errorf("users: %w", err)
		}
		log.Printf("✓ Imported %d users", len(userIDMap))

		log.Println("\n=== Importing Reviews ===")
		n, err = importReviews(tx, dataDir, userIDMap)
		if err != nil {
			return fmt.Errorf("reviews: %w", err)
		}
		log.Printf("✓ Imported %d reviews", n)

		log.Println("\n=== Importing Comments ===")
		n, err = importComments(tx, dataDir, userIDMap)
		if err != nil {
			return fmt.Errorf("comments: %w", err)
		}
		log.Printf("✓ Imported %d comments", n)

		return nil
	})
	if err != nil {
		log.Fatalf("Import failed, transaction rolled back: %v", err)
	}

	log.Println("\n✓ Data load completed successfully!")
}

// csvTable is a parsed CSV file with header-based column lookup.
type csvTable struct {
	cols map[string]int
	rows [][]string
}

func (t *csvTable) get(row []string, name string) (string, error) {
	idx, ok := t.cols[name]
	if !ok {
		return "", fmt.Errorf("missing column %q", name)
	}
	return row[idx], nil
}

func (t *csvTable) getInt(row []string, name string) (int64, error) {
	raw, err := t.get(row, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return v, nil
}

func readCSV(dataDir, name string) (*csvTable, error) {
	path := filepath.Join(dataDir, name)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}
	return &csvTable{cols: cols, rows: records[1:]}, nil
}

func importCategories(tx *gorm.DB, dataDir string) (int, error) {
	table, err := readCSV(dataDir, "category.csv")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range table.rows {
		id, err := table.getInt(row, "id")
		if err != nil {
			return count, err
		}
		name, err := table.get(row, "name")
		if err != nil {
			return count, err
		}
		slug, err := table.get(row, "slug")
		if err != nil {
			return count, err
		}

		category := models.Category{ID: id, Name: name, Slug: slug}
		if err := tx.Create(&category).Error; err != nil {
			return count, fmt.Errorf("category %q: %w", slug, err)
		}
		count++
	}
	return count, nil
}

func importGenres(tx *gorm.DB, dataDir string) (int, error) {
	table, err := readCSV(dataDir, "genre.csv")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range table.rows {
		id, err := table.getInt(row, "id")
		if err != nil {
			return count, err
		}
		name, err := table.get(row, "name")
		if err != nil {
			return count, err
		}
		slug, err := table.get(row, "slug")
		if err != nil {
			return count, err
		}

		genre := models.Genre{ID: id, Name: name, Slug: slug}
		if err := tx.Create(&genre).Error; err != nil {
			return count, fmt.Errorf("genre %q: %w", slug, err)
		}
		count++
	}
	return count, nil
}

func importTitles(tx *gorm.DB, dataDir string) (int, error) {
	table, err := readCSV(dataDir, "titles.csv")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range table.rows {
		id, err := table.getInt(row, "id")
		if err != nil {
			return count, err
		}
		name, err := table.get(row, "name")
		if err != nil {
			return count, err
		}
		year, err := table.getInt(row, "year")
		if err != nil {
			return count, err
		}

		title := models.Title{ID: id, Name: name, Year: int(year)}

		categoryRaw, err := table.get(row, "category")
		if err != nil {
			return count, err
		}
		if categoryRaw != "" {
			categoryID, err := strconv.ParseInt(categoryRaw, 10, 64)
			if err != nil {
				return count, fmt.Errorf("title %d category: %w", id, err)
			}
			title.CategoryID = &categoryID
		}

		if err := tx.Create(&title).Error; err != nil {
			return count, fmt.Errorf("title %q: %w", name, err)
		}
		count++
	}
	return count, nil
}

func importTitleGenres(tx *gorm.DB, dataDir string) (int, error) {
	table, err := readCSV(dataDir, "genre_title.csv")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range table.rows {
		titleID, err := table.getInt(row, "title_id")
		if err != nil {
			return count, err
		}
		genreID, err := table.getInt(row, "genre_id")
		if err != nil {
			return count, err
		}

		link := models.TitleGenre{TitleID: titleID, GenreID: genreID}
		if err := tx.Create(&link).Error; err != nil {
			return count, fmt.Errorf("title %d genre %d: %w", titleID, genreID, err)
		}
		count++
	}
	return count, nil
}

// importUsers maps the numeric CSV user ids to the UUIDs the users get on
// insert, so reviews and comments can be rewired to the right authors.
func importUsers(tx *gorm.DB, dataDir string) (map[int64]string, error) {
	table, err := readCSV(dataDir, "users.csv")
	if err != nil {
		return nil, err
	}

	userIDMap := make(map[int64]string, len(table.rows))
	for _, row := range table.rows {
		csvID, err := table.getInt(row, "id")
		if err != nil {
			return nil, err
		}
		username, err := table.get(row, "username")
		if err != nil {
			return nil, err
		}
		email, err := table.get(row, "email")
		if err != nil {
			return nil, err
		}
		roleRaw, err := table.get(row, "role")
		if err != nil {
			return nil, err
		}

		role := models.Role(roleRaw)
		if !role.Valid() {
			log.Printf("⚠ User %q has unknown role %q, using %q", username, roleRaw, models.RoleUser)
			role = models.RoleUser
		}

		bio, _ := table.get(row, "bio")

		user := models.User{
			ID:       uuid.New().String(),
			Username: username,
			Email:    email,
			Bio:      bio,
			Role:     role,
		}
		if err := tx.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("user %q: %w", username, err)
		}
		userIDMap[csvID] = user.ID
	}
	return userIDMap, nil
}

func importReviews(tx *gorm.DB, dataDir string, userIDMap map[int64]string) (int, error) {
	table, err := readCSV(dataDir, "review.csv")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range table.rows {
		id, err := table.getInt(row, "id")
		if err != nil {
			return count, err
		}
		titleID, err := table.getInt(row, "title_id")
		if err != nil {
			return count, err
		}
		text, err := table.get(row, "text")
		if err != nil {
			return count, err
		}
		authorCSVID, err := table.getInt(row, "author")
		if err != nil {
			return count, err
		}
		score, err := table.getInt(row, "score")
		if err != nil {
			return count, err
		}

		authorID, ok := userIDMap[authorCSVID]
		if !ok {
			return count, fmt.Errorf("review %d references unknown user %d", id, authorCSVID)
		}

		pubDate, err := parsePubDate(table, row)
		if err != nil {
			return count, fmt.Errorf("review %d: %w", id, err)
		}

		review := models.Review{
			ID:       id,
			TitleID:  titleID,
			AuthorID: authorID,
			Text:     text,
			Score:    int(score),
			PubDate:  pubDate,
		}
		if err := tx.Create(&review).Error; err != nil {
			return count, fmt.Errorf("review %d: %w", id, err)
		}
		count++
	}
	return count, nil
}

func importComments(tx *gorm.DB, dataDir string, userIDMap map[int64]string) (int, error) {
	table, err := readCSV(dataDir, "comments.csv")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range table.rows {
		id, err := table.getInt(row, "id")
		if err != nil {
			return count, err
		}
		reviewID, err := table.getInt(row, "review_id")
		if err != nil {
			return count, err
		}
		text, err := table.get(row, "text")
		if err != nil {
			return count, err
		}
		authorCSVID, err := table.getInt(row, "author")
		if err != nil {
			return count, err
		}

		authorID, ok := userIDMap[authorCSVID]
		if !ok {
			return count, fmt.Errorf("comment %d references unknown user %d", id, authorCSVID)
		}

		pubDate, err := parsePubDate(table, row)
		if err != nil {
			return count, fmt.Errorf("comment %d: %w", id, err)
		}

		comment := models.Comment{
			ID:       id,
			ReviewID: reviewID,
			AuthorID: authorID,
			Text:     text,
			PubDate:  pubDate,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return count, fmt.Errorf("comment %d: %w", id, err)
		}
		count++
	}
	return count, nil
}

func parsePubDate(table *csvTable, row []string) (time.Time, error) {
	raw, err := table.get(row, "pub_date")
	if err != nil {
		return time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("pub_date %q: %w", raw, err)
	}
	return ts, nil
}
