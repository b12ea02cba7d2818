package helper

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NewRequestID returns a random UUID that ties together the log lines of
// one request. It falls back to the nil UUID if the random source fails.
func NewRequestID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to generate request id")
		return uuid.Nil.String()
	}
	return id.String()
}

// PrettyPrint writes v to w as indented JSON.
func PrettyPrint(w io.Writer, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("Error pretty printing")
		return
	}
	fmt.Fprintln(w, string(b))
}
