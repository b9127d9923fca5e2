package models

type Position struct {
	Base
	Name       string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Salary     string `gorm:"size:100" json:"salary"`
	Experience string `gorm:"size:100" json:"experience"`
	Shift      string `gorm:"size:100" json:"shift"`
	JobType    string `gorm:"size:100" json:"job_type"`

	Questions []Question `gorm:"foreignKey:PositionID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}
