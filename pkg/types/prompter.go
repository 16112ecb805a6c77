package types

// Choice is one entry of a checklist or radiolist
type Choice struct {
	// Tag is the value returned when the entry is selected
	Tag string

	// Item is the short annotation shown next to the tag
	Item string

	// Selected marks the entry as initially selected
	Selected bool

	// Help is a one line status text for the entry
	Help string
}

// YesNoRequest describes a yes/no question
type YesNoRequest struct {
	Title string
	Text  string

	// Default is the answer used when the user just presses enter
	Default bool
}

// ListRequest describes a checklist or radiolist
type ListRequest struct {
	Title   string
	Text    string
	Choices []Choice

	// Help maps a tag to an extended description shown on request
	Help map[string]string
}

// Prompter is the interactive collaborator. Implementations return an
// ErrUserAbort error when the user cancels or escapes a prompt.
type Prompter interface {
	YesNo(req YesNoRequest) (bool, error)
	MsgBox(title, text string) error
	InfoBox(title, text string) error
	Checklist(req ListRequest) ([]string, error)
	Radiolist(req ListRequest) (string, error)
}

// SelectedTags returns the tags of the initially selected choices
func SelectedTags(choices []Choice) []string {
	var tags []string
	for _, c := range choices {
		if c.Selected {
			tags = append(tags, c.Tag)
		}
	}
	return tags
}
