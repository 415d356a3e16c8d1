package model

// Item is the domain model for a todo entry as the remote collection stores it.
// Identity is ID; UserID scopes the item to its owner.
type Item struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Draft carries the fields sent when creating an item. The server assigns the ID.
type Draft struct {
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Patch is a partial update. Nil fields are left untouched on the server.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// TitlePatch returns a Patch that only changes the title.
func TitlePatch(title string) Patch { return Patch{Title: &title} }

// CompletedPatch returns a Patch that only changes the completion flag.
func CompletedPatch(completed bool) Patch { return Patch{Completed: &completed} }
