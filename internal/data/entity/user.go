package entity

type User struct {
	Base
	Email        string `db:"email"`
	Name         string `db:"name"`
	Age          *int   `db:"age"`
	PasswordHash string `db:"password"`
}
