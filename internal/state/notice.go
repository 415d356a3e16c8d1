package state

// Kind classifies a user-facing notice. Kinds are mutually exclusive and
// each carries one fixed message; transport detail never reaches the user.
type Kind int

const (
	LoadFailed Kind = iota + 1
	ValidationEmpty
	CreateFailed
	DeleteFailed
	UpdateFailed
)

func (k Kind) Message() string {
	switch k {
	case LoadFailed:
		return "Unable to load todos"
	case ValidationEmpty:
		return "Title should not be empty"
	case CreateFailed:
		return "Unable to add a todo"
	case DeleteFailed:
		return "Unable to delete a todo"
	case UpdateFailed:
		return "Unable to update a todo"
	}
	return ""
}

func (k Kind) String() string {
	switch k {
	case LoadFailed:
		return "load_failed"
	case ValidationEmpty:
		return "validation_empty"
	case CreateFailed:
		return "create_failed"
	case DeleteFailed:
		return "delete_failed"
	case UpdateFailed:
		return "update_failed"
	}
	return "none"
}

// Notice is the single error message shown in the banner.
type Notice struct {
	Kind    Kind
	Message string
}

func newNotice(k Kind) Notice { return Notice{Kind: k, Message: k.Message()} }
