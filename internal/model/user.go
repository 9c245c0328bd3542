package model

// User 只存认证凭据，展示信息都在Profile里
type User struct {
	BaseModel
	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"` // bcrypt哈希
}

// Profile 与User一一对应，注册时自动创建
// Username是公开主页的URL slug，全局唯一
type Profile struct {
	BaseModel
	UserID      uint64 `gorm:"uniqueIndex;not null"`
	DisplayName string
	Username    string `gorm:"unique;not null"`
	AvatarURL   string
	CoverURL    string
	Bio         string `gorm:"type:text"`
	IsVerified  bool   `gorm:"default:false"`

	User User `gorm:"foreignKey:UserID"`
}

func (Profile) TableName() string {
	return "profiles"
}

// UserRole 角色表，存在(user_id, "admin")行即为管理员
type UserRole struct {
	BaseModel
	UserID uint64 `gorm:"uniqueIndex:idx_user_role;not null"`
	Role   string `gorm:"uniqueIndex:idx_user_role;not null"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

const RoleAdmin = "admin"
