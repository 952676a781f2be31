package input

// GoogleProfileInput - профиль из userinfo Google
type GoogleProfileInput struct {
	GoogleID      string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"verified_email"`
}
