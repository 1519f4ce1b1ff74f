package commands

import (
	"fmt"
	"io"

	"github.com/peoplepower/ppsync-go/pkg/models"
)

// RunModels prints the field layout of the named collections, or of all
// collections when names is empty.
func RunModels(names []string, w io.Writer) error {
	if len(names) == 0 {
		names = models.Names()
	}
	for i, name := range names {
		schema, ok := models.Schema(name)
		if !ok {
			return fmt.Errorf("unknown collection: %s", name)
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:\n", name)
		if err := schema.Write(w); err != nil {
			return err
		}
	}
	return nil
}
