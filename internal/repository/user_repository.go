package repository

import (
	"github.com/lshigami/Compiti/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(id uint) (*model.User, error)
	FindByName(name string) (*model.User, error)
	FindAllStudents() ([]model.User, error)
	FindStudentsByIDs(ids []uint) ([]model.User, error)
	Count() (int64, error)
	CreateAll(users []model.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, id).Error
	return &user, err
}

func (r *userRepository) FindByName(name string) (*model.User, error) {
	var user model.User
	err := r.db.Where("name = ?", name).First(&user).Error
	return &user, err
}

func (r *userRepository) FindAllStudents() ([]model.User, error) {
	var students []model.User
	err := r.db.Where("role = ?", model.RoleStudent).Order("name ASC").Find(&students).Error
	return students, err
}

func (r *userRepository) FindStudentsByIDs(ids []uint) ([]model.User, error) {
	var students []model.User
	err := r.db.Where("role = ? AND id IN ?", model.RoleStudent, ids).Find(&students).Error
	return students, err
}

func (r *userRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.User{}).Count(&n).Error
	return n, err
}

// CreateAll inserts seed users; used only at startup when the table is empty.
func (r *userRepository) CreateAll(users []model.User) error {
	return r.db.Create(&users).Error
}
