package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/kennel/internal/dogs"
)

// WriteNDJSONDogs writes dogs as newline-delimited JSON objects.
func WriteNDJSONDogs(w io.Writer, list []dogs.Dog) error {
	enc := json.NewEncoder(w)
	for _, d := range list {
		if err := enc.Encode(d); err != nil {
			return err
		}
	}
	return nil
}
