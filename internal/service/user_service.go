package service

import (
	"fmt"

	"github.com/lshigami/Compiti/internal/dto"
	"github.com/lshigami/Compiti/internal/repository"
)

// UserService exposes the read-only user directory.
type UserService interface {
	ListStudents() ([]dto.StudentDTO, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListStudents() ([]dto.StudentDTO, error) {
	students, err := s.userRepo.FindAllStudents()
	if err != nil {
		return nil, fmt.Errorf("error fetching students: %w", err)
	}

	dtos := make([]dto.StudentDTO, 0, len(students))
	for _, student := range students {
		dtos = append(dtos, dto.StudentDTO{StudentID: student.ID, StudentName: student.Name})
	}
	return dtos, nil
}
