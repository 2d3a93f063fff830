package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// Apply installs the global apex/log handler and level described by l.
func (l LogConfig) Apply(w io.Writer) error {
	level, err := log.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	switch strings.ToLower(l.Format) {
	case "json":
		log.SetHandler(json.New(w))
	case "text":
		log.SetHandler(text.New(w))
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, l.Format)
	}
	log.SetLevel(level)
	return nil
}
