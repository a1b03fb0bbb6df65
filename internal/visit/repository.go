package visit

import (
	"gorm.io/gorm"
)

type Repository interface {
	Save(db *gorm.DB, v *Visit) error
	FindByID(db *gorm.DB, id string) (*Visit, error)
	ListAll(db *gorm.DB, orderBy string) ([]Visit, error)
	ListBySalesRep(db *gorm.DB, salesRepID, orderBy string) ([]Visit, error)
	Update(db *gorm.DB, id string, next *Visit) (*Visit, error)
	Delete(db *gorm.DB, id string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, v *Visit) error {
	return db.Create(v).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id string) (*Visit, error) {
	var v Visit
	if err := db.First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB, orderBy string) ([]Visit, error) {
	if orderBy == "" {
		orderBy = "visit_date"
	}
	var visits []Visit
	err := db.Order(orderBy).Find(&visits).Error
	return visits, err
}

// ListBySalesRep applies the row-visibility rule for non-admin users.
func (r *repositoryImpl) ListBySalesRep(db *gorm.DB, salesRepID, orderBy string) ([]Visit, error) {
	if orderBy == "" {
		orderBy = "visit_date"
	}
	var visits []Visit
	err := db.Where("sales_rep_id = ?", salesRepID).Order(orderBy).Find(&visits).Error
	return visits, err
}

// Update replaces the editable fields. SalesRepID is immutable and is
// deliberately not copied from next.
func (r *repositoryImpl) Update(db *gorm.DB, id string, next *Visit) (*Visit, error) {
	var existing Visit
	if err := db.First(&existing, "id = ?", id).Error; err != nil {
		return nil, err
	}

	existing.PharmacyID = next.PharmacyID
	existing.VisitDate = next.VisitDate
	existing.Status = next.Status
	existing.Notes = next.Notes

	if err := db.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *repositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&Visit{}, "id = ?", id).Error
}
