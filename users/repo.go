package users

type UserRepo interface {
	Upsert(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(id int) (*User, error)
	List() ([]*User, error)
}
