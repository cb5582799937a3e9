package models

// CompanyProfileID is the fixed singleton key; the table holds at most one row.
const CompanyProfileID int64 = 1

// CompanyProfile carries the report/document letterhead metadata.
type CompanyProfile struct {
	ID      int64  `gorm:"column:id;primaryKey" json:"id"`
	Name    string `gorm:"column:name;not null" json:"name"`
	Address string `gorm:"column:address" json:"address"`
	Phone   string `gorm:"column:phone" json:"phone"`
	TaxID   string `gorm:"column:tax_id" json:"tax_id"`
}

func (CompanyProfile) TableName() string { return "company_profiles" }
