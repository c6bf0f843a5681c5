package driven

// Template names known to the public renderer.
const (
	// TemplatePage lays out a whole document: sections and their blocks.
	TemplatePage = "page"

	// TemplateStyle is the stylesheet inlined into every rendered page.
	TemplateStyle = "style"
)

// TemplateStore supplies the text of the public page templates.
// Administrators can override them without rebuilding.
type TemplateStore interface {
	// Load returns the template text for name.
	Load(name string) (string, error)

	// Reload drops cached templates so the next Load reads fresh copies.
	Reload()

	// Dir returns where user templates live, or "" when they are built in.
	Dir() string
}
