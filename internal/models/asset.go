package models

type Asset struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	AssetCode string `gorm:"size:100;uniqueIndex;not null" json:"asset_code"`
	Name      string `gorm:"size:255;not null" json:"name"`
	OwnerID   *uint  `json:"owner_id"`
	IsActive  bool   `gorm:"not null;default:true" json:"is_active"`

	// актив никогда не удаляем физически — только is_active=false,
	// иначе потеряем историю проверок
	Verifications []AssetVerification `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"-"`
}
