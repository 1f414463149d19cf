package mock

import "github.com/fwojciec/tubechat"

var _ tubechat.Converter = (*Converter)(nil)

// Converter is a mock implementation of tubechat.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
