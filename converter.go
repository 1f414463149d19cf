package tubechat

// Converter converts HTML fragments to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as a rendered video
	// description, into Markdown.
	Convert(html string) (string, error)
}
