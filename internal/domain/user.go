package domain

// User is the authenticated user handle supplied by the identity provider.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

// Preference keys stored in the users.preferences JSON object.
const (
	PrefTheme              = "theme"
	PrefLastSelectedPairID = "lastSelectedPairId"
)

// Preferences is the per-user preference blob.
type Preferences struct {
	Theme              string `json:"theme,omitempty"`
	LastSelectedPairID string `json:"lastSelectedPairId,omitempty"`
}
