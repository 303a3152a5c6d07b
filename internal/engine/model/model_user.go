package model

type User struct {
	BaseModel
	UserId     string     `gorm:"column:user_id;type:varchar(64);uniqueIndex;not null" json:"userId"`
	Email      string     `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Name       string     `gorm:"column:name;type:varchar(128)" json:"name"`
	GlobalRole GlobalRole `gorm:"column:global_role;type:varchar(16);not null;default:USER" json:"globalRole"`
}

func (User) TableName() string {
	return "t_user"
}
