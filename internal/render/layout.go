package render

// LoginProps configures the sign-in page
type LoginProps struct {
	Next               string
	Error              string
	Enabled            bool
	FirebaseAPIKey     string
	FirebaseAuthDomain string
	FirebaseProjectID  string
}

func documentTitle(title string) string {
	if title == "" {
		return "Untitled"
	}
	return title
}
