package service

import (
	"errors"
	"regexp"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugTaken        = errors.New("slug already in use")
	ErrInvalidSlug      = errors.New("slug may only contain letters, digits, hyphens and underscores")
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryService interface {
	List(search string, limit, offset int) (*dto.Paginated[dto.CategoryResponse], error)
	Create(in dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	Delete(slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(search string, limit, offset int) (*dto.Paginated[dto.CategoryResponse], error) {
	categories, total, err := s.categoryRepo.List(search, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, dto.CategoryFromModel(c))
	}

	return dto.NewPaginated(responses, total, limit, offset), nil
}

func (s *categoryService) Create(in dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	if !slugPattern.MatchString(in.Slug) {
		return nil, ErrInvalidSlug
	}

	category := models.Category{Name: in.Name, Slug: in.Slug}
	if err := s.categoryRepo.Create(&category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	resp := dto.CategoryFromModel(category)
	return &resp, nil
}

func (s *categoryService) Delete(slug string) error {
	err := s.categoryRepo.DeleteBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	return err
}
