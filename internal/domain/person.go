package domain

// Person is a moderator or a panelist. IsModerator only drives display.
type Person struct {
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	Title       string `json:"title"`
	IsModerator bool   `json:"is_moderator"`
}

// Role returns the French label shown next to the name.
func (p Person) Role() string {
	if p.IsModerator {
		return "Modérateur"
	}
	return "Panéliste"
}
