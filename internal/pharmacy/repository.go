package pharmacy

import (
	"gorm.io/gorm"
)

type Repository interface {
	Save(db *gorm.DB, p *Pharmacy) error
	FindByID(db *gorm.DB, id string) (*Pharmacy, error)
	ListAll(db *gorm.DB, orderBy string) ([]Pharmacy, error)
	ListOptions(db *gorm.DB) ([]Option, error)
	CountByName(db *gorm.DB, name string) (int64, error)
	Update(db *gorm.DB, id string, next *Pharmacy) (*Pharmacy, error)
	Delete(db *gorm.DB, id string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, p *Pharmacy) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id string) (*Pharmacy, error) {
	var p Pharmacy
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB, orderBy string) ([]Pharmacy, error) {
	if orderBy == "" {
		orderBy = "name"
	}
	var pharmacies []Pharmacy
	err := db.Order(orderBy).Find(&pharmacies).Error
	return pharmacies, err
}

// ListOptions returns id+name pairs ordered by name, for dropdowns.
func (r *repositoryImpl) ListOptions(db *gorm.DB) ([]Option, error) {
	var options []Option
	err := db.Model(&Pharmacy{}).Select("id", "name").Order("name").Scan(&options).Error
	return options, err
}

func (r *repositoryImpl) CountByName(db *gorm.DB, name string) (int64, error) {
	var n int64
	err := db.Model(&Pharmacy{}).Where("name = ?", name).Count(&n).Error
	return n, err
}

func (r *repositoryImpl) Update(db *gorm.DB, id string, next *Pharmacy) (*Pharmacy, error) {
	var existing Pharmacy
	if err := db.First(&existing, "id = ?", id).Error; err != nil {
		return nil, err
	}

	existing.Name = next.Name
	existing.Address = next.Address
	existing.City = next.City
	existing.Phone = next.Phone
	existing.Email = next.Email
	existing.ContactPerson = next.ContactPerson

	if err := db.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *repositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&Pharmacy{}, "id = ?", id).Error
}
