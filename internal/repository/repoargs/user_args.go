package repoargs

type CreateUser struct {
	Name              string
	Login             string
	Email             string
	EncryptedPassword string
}
