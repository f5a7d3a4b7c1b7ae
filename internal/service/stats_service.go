package service

import (
	"fmt"
	"math"

	"github.com/lshigami/Compiti/internal/dto"
	"github.com/lshigami/Compiti/internal/model"
	"github.com/lshigami/Compiti/internal/repository"
	"github.com/rs/zerolog/log"
)

// StatsService computes the group-weighted score aggregates. Each evaluated
// assignment contributes score/groupSize to the numerator and 1/groupSize to
// the denominator, so a score earned in a small group weighs more than the
// same score earned in a large one.
type StatsService interface {
	StudentAverage(studentID uint) (*float64, error)
	ClassStatus(teacherID uint) ([]dto.ClassStatusRowDTO, error)
}

type statsService struct {
	assignmentRepo repository.AssignmentRepository
	userRepo       repository.UserRepository
}

func NewStatsService(assignmentRepo repository.AssignmentRepository, userRepo repository.UserRepository) StatsService {
	return &statsService{assignmentRepo: assignmentRepo, userRepo: userRepo}
}

// StudentAverage returns the weighted average over every closed, scored
// assignment the student took part in, across all teachers. Nil when the
// student has no evaluated assignments.
func (s *statsService) StudentAverage(studentID uint) (*float64, error) {
	rows, err := s.assignmentRepo.StudentScoreRows(studentID)
	if err != nil {
		return nil, fmt.Errorf("error fetching score rows for student %d: %w", studentID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var numerator, denominator float64
	for _, row := range rows {
		size := float64(row.GroupSize)
		numerator += float64(row.Score) / size
		denominator += 1 / size
	}

	avg := round2(numerator / denominator)
	log.Debug().Uint("studentID", studentID).Float64("average", avg).Int("assignments", len(rows)).Msg("Student average computed")
	return &avg, nil
}

// ClassStatus returns one row per student in the system, sorted by name,
// with open/closed counts and the weighted average restricted to this
// teacher's assignments. Students untouched by this teacher appear with zero
// counts and a nil average.
func (s *statsService) ClassStatus(teacherID uint) ([]dto.ClassStatusRowDTO, error) {
	students, err := s.userRepo.FindAllStudents()
	if err != nil {
		return nil, fmt.Errorf("error fetching students: %w", err)
	}
	rows, err := s.assignmentRepo.ClassStatusRows(teacherID)
	if err != nil {
		return nil, fmt.Errorf("error fetching class status rows for teacher %d: %w", teacherID, err)
	}

	type agg struct {
		numOpen     int
		numClosed   int
		numerator   float64
		denominator float64
	}
	byStudent := make(map[uint]*agg, len(students))
	for _, row := range rows {
		a := byStudent[row.StudentID]
		if a == nil {
			a = &agg{}
			byStudent[row.StudentID] = a
		}
		switch row.Status {
		case model.StatusOpen:
			a.numOpen++
		case model.StatusClosed:
			a.numClosed++
			if row.Score != nil {
				size := float64(row.GroupSize)
				a.numerator += float64(*row.Score) / size
				a.denominator += 1 / size
			}
		}
	}

	result := make([]dto.ClassStatusRowDTO, 0, len(students))
	for _, student := range students {
		row := dto.ClassStatusRowDTO{
			StudentID:   student.ID,
			StudentName: student.Name,
		}
		if a := byStudent[student.ID]; a != nil {
			row.NumOpen = a.numOpen
			row.NumClosed = a.numClosed
			if a.denominator > 0 {
				avg := round2(a.numerator / a.denominator)
				row.AvgScore = &avg
			}
		}
		result = append(result, row)
	}
	return result, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
