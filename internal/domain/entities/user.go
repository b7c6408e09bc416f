package entities

// Identity is a signed-in user. A nil *Identity means the guest of a chat.
type Identity struct {
	ID    string
	Email string
}

// IdentityID returns the id used to namespace storage, or "" for guests.
func IdentityID(id *Identity) string {
	if id == nil {
		return ""
	}
	return id.ID
}
