package service

import (
	"errors"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

var ErrGenreNotFound = errors.New("genre not found")

type GenreService interface {
	List(search string, limit, offset int) (*dto.Paginated[dto.GenreResponse], error)
	Create(in dto.CreateGenreDTO) (*dto.GenreResponse, error)
	Delete(slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(search string, limit, offset int) (*dto.Paginated[dto.GenreResponse], error) {
	genres, total, err := s.genreRepo.List(search, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GenreResponse, 0, len(genres))
	for _, g := range genres {
		responses = append(responses, dto.GenreFromModel(g))
	}

	return dto.NewPaginated(responses, total, limit, offset), nil
}

func (s *genreService) Create(in dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	if !slugPattern.MatchString(in.Slug) {
		return nil, ErrInvalidSlug
	}

	genre := models.Genre{Name: in.Name, Slug: in.Slug}
	if err := s.genreRepo.Create(&genre); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	resp := dto.GenreFromModel(genre)
	return &resp, nil
}

func (s *genreService) Delete(slug string) error {
	err := s.genreRepo.DeleteBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrGenreNotFound
	}
	return err
}
