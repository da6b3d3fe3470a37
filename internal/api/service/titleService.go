package service

import (
	"context"
	"errors"
	"math"
	"time"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrTitleNotFound = errors.New("title not found")
	ErrYearInFuture  = errors.New("year cannot be greater than the current year")
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, limit, offset int) (*dto.Paginated[dto.TitleResponse], error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	reviewRepo   repository.ReviewRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	reviewRepo repository.ReviewRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		reviewRepo:   reviewRepo,
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, limit, offset int) (*dto.Paginated[dto.TitleResponse], error) {
	titles, total, err := s.titleRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		rating, err := s.ratingFor(titles[i].ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i], rating))
	}

	return dto.NewPaginated(responses, total, limit, offset), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTitleNotFound
	}
	if err != nil {
		return nil, err
	}

	rating, err := s.ratingFor(title.ID)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToTitleResponse(title, rating), nil
}

func (s *titleService) Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	if in.Year > time.Now().Year() {
		return nil, ErrYearInFuture
	}

	title := models.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
	}

	if in.Category != "" {
		category, err := s.resolveCategory(in.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	genres, err := s.resolveGenres(in.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.titleRepo.Create(ctx, &title); err != nil {
		return nil, err
	}

	// reload to pick up the category association
	created, err := s.titleRepo.GetByID(ctx, title.ID)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToTitleResponse(created, nil), nil
}

func (s *titleService) Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTitleNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		title.Name = *in.Name
	}
	if in.Year != nil {
		if *in.Year > time.Now().Year() {
			return nil, ErrYearInFuture
		}
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = in.Description
	}
	if in.Category != nil {
		if *in.Category == "" {
			title.CategoryID = nil
			title.Category = nil
		} else {
			category, err := s.resolveCategory(*in.Category)
			if err != nil {
				return nil, err
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	if in.Genre != nil {
		genres, err := s.resolveGenres(*in.Genre)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	updated, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rating, err := s.ratingFor(id)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToTitleResponse(updated, rating), nil
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	err := s.titleRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTitleNotFound
	}
	return err
}

func (s *titleService) resolveCategory(slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(slugs []string) ([]models.Genre, error) {
	genres, err := s.genreRepo.GetBySlugs(slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		return nil, ErrGenreNotFound
	}
	return genres, nil
}

// ratingFor derives the rating: mean review score rounded to the nearest
// integer, nil when the title has no reviews.
func (s *titleService) ratingFor(titleID int64) (*int, error) {
	avg, err := s.reviewRepo.AverageScore(titleID)
	if err != nil {
		return nil, err
	}
	if avg == nil {
		return nil, nil
	}
	rating := int(math.Round(*avg))
	return &rating, nil
}
