package models

// User owns watch configurations and cart lines. Only the bcrypt hash of
// the password is ever stored.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"UserID"`
	Username     string `gorm:"unique;not null"          json:"Username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}

// Case is the watch case shape reference table (boitiers).
type Case struct {
	ID    uint    `gorm:"primaryKey;autoIncrement" json:"ID"`
	Name  string  `gorm:"not null"                 json:"Name"`
	Price float64 `gorm:"not null"                 json:"Price"`
}

// CaseTexture is the case finish reference table (textures de boitier).
type CaseTexture struct {
	ID    uint    `gorm:"primaryKey;autoIncrement" json:"ID"`
	Name  string  `gorm:"not null"                 json:"Name"`
	Price float64 `gorm:"not null"                 json:"Price"`
}

// Gem is the gem reference table (pierres).
type Gem struct {
	ID    uint    `gorm:"primaryKey;autoIncrement" json:"ID"`
	Name  string  `gorm:"not null"                 json:"Name"`
	Price float64 `gorm:"not null"                 json:"Price"`
}

// StrapTexture is the strap finish reference table (textures de bracelet).
type StrapTexture struct {
	ID    uint    `gorm:"primaryKey;autoIncrement" json:"ID"`
	Name  string  `gorm:"not null"                 json:"Name"`
	Price float64 `gorm:"not null"                 json:"Price"`
}

// Strap is the strap reference table (bracelets). The API lists it but
// watches reference StrapTexture, not Strap.
type Strap struct {
	ID    uint    `gorm:"primaryKey;autoIncrement" json:"ID"`
	Name  string  `gorm:"not null"                 json:"Name"`
	Price float64 `gorm:"not null"                 json:"Price"`
}

// Watch is one configured watch. All four attribute references are
// optional; an absent reference renders as null in joined output.
type Watch struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"MontreID"`
	UserID         *uint  `gorm:"index"                    json:"UserID,omitempty"`
	Name           string `gorm:"not null"                 json:"Name"`
	CaseID         *uint  `json:"CaseID,omitempty"`
	CaseTextureID  *uint  `json:"CaseTextureID,omitempty"`
	GemID          *uint  `json:"GemID,omitempty"`
	StrapTextureID *uint  `json:"StrapTextureID,omitempty"`
}

// CartItem is one cart line. Repeated adds of the same watch create
// separate lines.
type CartItem struct {
	ID       uint `gorm:"primaryKey"                 json:"PanierID"`
	UserID   uint `gorm:"index;not null"             json:"UserID"`
	WatchID  uint `gorm:"not null"                   json:"WatchID"`
	Quantity uint `gorm:"default:1;check:quantity>0" json:"Quantity"`
}
