package domain

type StyleTag string

const (
	StylePending   StyleTag = "pending"
	StyleCompleted StyleTag = "completed"
)

type Presentation struct {
	Label    string
	StyleTag StyleTag
}

// Formatter maps a todo to its display attributes. Implementations must be
// pure: the result depends only on the completed flag.
type Formatter interface {
	Format(todo Todo) Presentation
}

type DefaultFormatter struct{}

func NewDefaultFormatter() Formatter {
	return DefaultFormatter{}
}

func (DefaultFormatter) Format(todo Todo) Presentation {
	if todo.Completed {
		return Presentation{Label: "Completed", StyleTag: StyleCompleted}
	}

	return Presentation{Label: "Pending", StyleTag: StylePending}
}

// FormatterFunc adapts a plain function to Formatter.
type FormatterFunc func(todo Todo) Presentation

func (f FormatterFunc) Format(todo Todo) Presentation {
	return f(todo)
}
