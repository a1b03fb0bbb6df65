package profile

import (
	"gorm.io/gorm"
)

type Repository interface {
	Save(db *gorm.DB, p *Profile) error
	FindByID(db *gorm.DB, id string) (*Profile, error)
	FindByEmail(db *gorm.DB, email string) (*Profile, error)
	ListAll(db *gorm.DB) ([]Profile, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, p *Profile) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id string) (*Profile, error) {
	var p Profile
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*Profile, error) {
	var p Profile
	if err := db.Where("email = ?", email).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]Profile, error) {
	var profiles []Profile
	err := db.Order("full_name").Find(&profiles).Error
	return profiles, err
}
