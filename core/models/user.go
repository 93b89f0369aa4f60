package models

// AppUser is the remote profile document. It is created on the first
// sign-in for which no document exists.
type AppUser struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	DisplayName   *string        `json:"displayName,omitempty"`
	FlashcardSets []FlashcardSet `json:"flashcardSets"`
}

// Clone returns a deep copy of the profile.
func (u AppUser) Clone() *AppUser {
	out := u
	out.DisplayName = cloneString(u.DisplayName)
	out.FlashcardSets = CloneSets(u.FlashcardSets)
	return &out
}
