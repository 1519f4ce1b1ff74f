package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/models"
	"github.com/peoplepower/ppsync-go/pkg/session"
	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// RunDecode applies the payloads in path to an empty collection and
// prints every outcome followed by the records as they would be stored.
func RunDecode(path, collection string, w io.Writer) error {
	s := session.New()
	defer s.Close()
	models.Register(s)

	a, err := s.Collection(collection)
	if err != nil {
		return err
	}
	if err := applyFile(a, path, w); err != nil {
		return err
	}

	data, err := json.MarshalIndent(a.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	fmt.Fprintf(w, "%s\n", data)
	return nil
}

// applyFile decodes path as JSON or CBOR and applies each payload to a.
// Payloads that fail are reported and skipped.
func applyFile(a session.Applier, path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read payload file: %w", err)
	}
	payloads, err := wire.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for i, p := range payloads {
		out, err := a.ApplyPayload(p)
		formatOutcome(w, i, out, err)
	}
	return nil
}

func formatOutcome(w io.Writer, i int, out session.Outcome, err error) {
	if err != nil {
		fmt.Fprintf(w, "#%d rejected: %v\n", i, err)
		return
	}
	verb := "updated"
	switch {
	case out.Created:
		verb = "created"
	case len(out.Changes) == 0:
		verb = "unchanged"
	}
	fmt.Fprintf(w, "#%d %v %s", i, out.ID, verb)
	if len(out.Changes) > 0 {
		fmt.Fprintf(w, " [%s]", strings.Join(out.Changes, ", "))
	}
	fmt.Fprintln(w)

	var de *model.DecodeError
	if errors.As(out.Issues, &de) {
		for _, issue := range de.Issues {
			fmt.Fprintf(w, "  issue: %v\n", issue)
		}
	}
}
