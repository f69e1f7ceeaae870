package prompt

import (
	"fmt"

	"github.com/spf13/pflag"
)

// TextPrompter asks for one line of text.
type TextPrompter interface {
	PromptText(message, def string) (string, bool)
}

// Flags asks for every named flag the user did not set on the command line
// and stores the answers in fs. An aborted prompt stops with an error.
func Flags(fs *pflag.FlagSet, p TextPrompter, names ...string) error {
	for _, name := range names {
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("prompt: unknown flag --%s", name)
		}
		if f.Changed {
			continue
		}
		for {
			answer, ok := p.PromptText(fmt.Sprintf("%s [%s]", f.Usage, f.Value.Type()), f.DefValue)
			if !ok {
				return fmt.Errorf("prompt: --%s not answered", name)
			}
			if err := fs.Set(name, answer); err != nil {
				continue
			}
			break
		}
	}
	return nil
}
