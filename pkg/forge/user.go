package forge

import "github.com/google/go-github/v62/github"

// User is a hosting account.
type User struct {
	Username  string
	Name      string
	Email     string
	AvatarURL string
}

func newUser(data *github.User) *User {
	return &User{
		Username:  data.GetLogin(),
		Name:      data.GetName(),
		Email:     data.GetEmail(),
		AvatarURL: data.GetAvatarURL(),
	}
}
