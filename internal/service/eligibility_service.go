package service

import (
	"fmt"

	"github.com/lshigami/Compiti/internal/dto"
	"github.com/lshigami/Compiti/internal/repository"
	"github.com/rs/zerolog/log"
)

// CollaborationCap is the maximum number of past assignments in which the
// same unordered student pair may appear together under the same teacher.
const CollaborationCap = 2

// EligibilityService answers which students may still be added to a group
// being composed by a teacher. Pure queries, no side effects.
type EligibilityService interface {
	EligibleStudents(teacherID uint, selectedIDs []uint) ([]dto.StudentDTO, error)
	CollaborationCount(teacherID, studentID1, studentID2 uint) (int64, error)
}

type eligibilityService struct {
	userRepo        repository.UserRepository
	groupMemberRepo repository.GroupMemberRepository
}

func NewEligibilityService(userRepo repository.UserRepository, groupMemberRepo repository.GroupMemberRepository) EligibilityService {
	return &eligibilityService{userRepo: userRepo, groupMemberRepo: groupMemberRepo}
}

// EligibleStudents returns every student outside selectedIDs whose pair count
// with each selected student is below the cap. With an empty selection all
// students are eligible.
func (s *eligibilityService) EligibleStudents(teacherID uint, selectedIDs []uint) ([]dto.StudentDTO, error) {
	students, err := s.userRepo.FindAllStudents()
	if err != nil {
		return nil, fmt.Errorf("error fetching students: %w", err)
	}

	selected := make(map[uint]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	eligible := make([]dto.StudentDTO, 0, len(students))
	for _, student := range students {
		if selected[student.ID] {
			continue
		}

		ok := true
		for _, sid := range selectedIDs {
			count, err := s.groupMemberRepo.CountPairCollaborations(teacherID, student.ID, sid)
			if err != nil {
				return nil, fmt.Errorf("error counting collaborations for pair (%d, %d): %w", student.ID, sid, err)
			}
			if count >= CollaborationCap {
				ok = false
				break
			}
		}
		if ok {
			eligible = append(eligible, dto.StudentDTO{StudentID: student.ID, StudentName: student.Name})
		}
	}

	log.Debug().Uint("teacherID", teacherID).Int("selected", len(selectedIDs)).Int("eligible", len(eligible)).Msg("Eligibility computed")
	return eligible, nil
}

func (s *eligibilityService) CollaborationCount(teacherID, studentID1, studentID2 uint) (int64, error) {
	return s.groupMemberRepo.CountPairCollaborations(teacherID, studentID1, studentID2)
}
