package spotify

import "time"

// Profile is the authenticated user's public profile.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Country     string `json:"country,omitempty"`
	Product     string `json:"product,omitempty"`
}

// Track contains the track metadata the application displays.
type Track struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"` // Comma-separated artist names
	Album  string `json:"album,omitempty"`
	URI    string `json:"uri"`
}

// Artist is a top artist with its Spotify genres.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// Play is one entry of the user's recently played history.
type Play struct {
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}

// Playlist identifies a playlist created for the user.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
	URL  string `json:"url,omitempty"`
}
